package dto

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ProgramDocument is the persisted form of a program.
type ProgramDocument struct {
	Name      string             `json:"name" yaml:"name"`
	Headers   []string           `json:"headers,omitempty" yaml:"headers,omitempty"`
	Functions []FunctionDocument `json:"functions" yaml:"functions"`
}

// FunctionDocument is the persisted form of one flowchart.
type FunctionDocument struct {
	Name        string              `json:"name" yaml:"name"`
	Nodes       []NodeDocument      `json:"nodes" yaml:"nodes"`
	Connections []domain.Connection `json:"connections" yaml:"connections"`
}

// NodeDocument holds the shared node state plus the variant payload as a
// loose map, so documents stay readable and new fields do not break old files.
type NodeDocument struct {
	Tag        domain.Tag     `json:"tag" yaml:"tag"`
	Type       domain.Kind    `json:"type" yaml:"type"`
	Comment    bool           `json:"comment,omitempty" yaml:"comment,omitempty"`
	Commentary string         `json:"commentary,omitempty" yaml:"commentary,omitempty"`
	BreakPoint bool           `json:"break_point,omitempty" yaml:"break_point,omitempty"`
	Scope      []domain.Tag   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Fields     map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FromProgram converts a program into its document form.
func FromProgram(p *domain.Program) (*ProgramDocument, error) {
	doc := &ProgramDocument{
		Name:    p.Name,
		Headers: slices.Clone(p.Headers),
	}
	for _, f := range p.Functions() {
		fd := FunctionDocument{Name: f.Name(), Connections: f.Connections()}
		for _, n := range f.Nodes() {
			nd, err := fromNode(n)
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", f.Name(), err)
			}
			fd.Nodes = append(fd.Nodes, nd)
		}
		doc.Functions = append(doc.Functions, fd)
	}
	return doc, nil
}

func fromNode(n *domain.Node) (NodeDocument, error) {
	fields := make(map[string]any)
	if err := mapstructure.Decode(n.Stmt, &fields); err != nil {
		return NodeDocument{}, fmt.Errorf("failed to encode node %s: %w", n.Tag, err)
	}
	if len(fields) == 0 {
		fields = nil
	}
	return NodeDocument{
		Tag:        n.Tag,
		Type:       n.Kind(),
		Comment:    n.Comment,
		Commentary: n.Commentary,
		BreakPoint: n.BreakPoint,
		Scope:      slices.Clone(n.Scope),
		Fields:     fields,
	}, nil
}

// ToProgram rebuilds the program described by the document.
func (d *ProgramDocument) ToProgram() (*domain.Program, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: program has no name", domain.ErrInvalidNode)
	}
	charts := make([]*domain.Flowchart, 0, len(d.Functions))
	for _, fd := range d.Functions {
		nodes := make([]*domain.Node, 0, len(fd.Nodes))
		for _, nd := range fd.Nodes {
			n, err := nd.toNode()
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", fd.Name, err)
			}
			nodes = append(nodes, n)
		}
		f, err := domain.Restore(nodes, fd.Connections)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fd.Name, err)
		}
		charts = append(charts, f)
	}
	return domain.RestoreProgram(d.Name, d.Headers, charts...)
}

func (nd NodeDocument) toNode() (*domain.Node, error) {
	stmt := domain.NewStatement(nd.Type)
	if stmt == nil {
		return nil, fmt.Errorf("%w: unknown type %q for node %s", domain.ErrInvalidNode, nd.Type, nd.Tag)
	}
	if nd.Tag == domain.NoTag {
		return nil, fmt.Errorf("%w: node without tag", domain.ErrInvalidNode)
	}
	if err := DecodeFields(nd.Fields, stmt); err != nil {
		return nil, fmt.Errorf("node %s: %w", nd.Tag, err)
	}
	scope := slices.Clone(nd.Scope)
	slices.Sort(scope)
	return &domain.Node{
		Tag:        nd.Tag,
		Stmt:       stmt,
		Comment:    nd.Comment,
		Commentary: nd.Commentary,
		BreakPoint: nd.BreakPoint,
		Scope:      slices.Compact(scope),
	}, nil
}

// DecodeFields fills a statement from a loose field map. Unknown keys are
// rejected; scalar types are coerced the way YAML authors expect ("5" for 5).
func DecodeFields(fields map[string]any, stmt domain.Statement) error {
	if len(fields) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           stmt,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("failed to decode %s fields: %w", stmt.Kind(), err)
	}
	return nil
}

// Format selects the document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension, defaulting to YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Marshal encodes a program.
func Marshal(p *domain.Program, format Format) ([]byte, error) {
	doc, err := FromProgram(p)
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}

// Unmarshal decodes a program.
func Unmarshal(data []byte, format Format) (*domain.Program, error) {
	var doc ProgramDocument
	if format == FormatJSON {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse program json: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse program yaml: %w", err)
	}
	return doc.ToProgram()
}
