package debug

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/flowc/internal/logging"
	"github.com/aretw0/flowc/pkg/codegen"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/google/uuid"
)

// Variable is one binding reported by the debugger.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Snapshot is the state of a debug session as seen by the editor.
type Snapshot struct {
	SessionID string     `json:"session_id"`
	Line      int        `json:"line"`
	Node      domain.Tag `json:"node"`
	Function  string     `json:"function,omitempty"`
	Variables []Variable `json:"variables"`
	Hits      int        `json:"hits"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithHooks registers callbacks for hit and variable events.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bridge) {
		b.hooks = hooks
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(b *Bridge) {
		b.id = id
	}
}

// Bridge translates debugger notifications keyed by source line back to
// flowchart nodes. A debugger reader goroutine calls Hit and Bind while the
// editor reads Snapshot, so all methods are safe for concurrent use.
type Bridge struct {
	id      string
	listing *codegen.Listing
	lines   map[domain.Tag][]int
	logger  *slog.Logger
	hooks   domain.LifecycleHooks

	mu   sync.RWMutex
	cur  int
	hits int
	vars map[string]string
	at   time.Time
}

// NewBridge starts a session over the listing the debugger is running.
func NewBridge(listing *codegen.Listing, opts ...Option) *Bridge {
	b := &Bridge{
		id:      uuid.NewString(),
		listing: listing,
		lines:   listing.NodeLines(),
		logger:  logging.NewNop(),
		vars:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SessionID identifies the debug session in events.
func (b *Bridge) SessionID() string { return b.id }

// NodeAt returns the node that produced a line, NoTag for synthetic lines.
func (b *Bridge) NodeAt(line int) domain.Tag {
	return b.listing.Node(line)
}

// LinesOf returns the lines produced by a node.
func (b *Bridge) LinesOf(tag domain.Tag) []int {
	return slices.Clone(b.lines[tag])
}

// Breakpoints returns the lines flagged for a stop.
func (b *Bridge) Breakpoints() []int {
	return b.listing.Breakpoints()
}

// Hit records that the debugger stopped on a line and returns the node the
// editor should highlight. Lines outside the listing resolve to NoTag.
func (b *Bridge) Hit(ctx context.Context, line int) domain.Tag {
	ln, _ := b.listing.Line(line)

	b.mu.Lock()
	b.cur = line
	b.hits++
	b.at = time.Now()
	b.mu.Unlock()

	b.logger.Debug("line hit", "session", b.id, "line", line, "node", ln.Node)
	if b.hooks.OnLineHit != nil {
		b.hooks.OnLineHit(ctx, &domain.LineHitEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLineHit},
			SessionID: b.id,
			Line:      line,
			Node:      ln.Node,
			Function:  ln.Function,
		})
	}
	return ln.Node
}

// Bind records a variable binding.
func (b *Bridge) Bind(ctx context.Context, name, value string) {
	b.mu.Lock()
	b.vars[name] = value
	b.at = time.Now()
	b.mu.Unlock()

	if b.hooks.OnVariable != nil {
		b.hooks.OnVariable(ctx, &domain.VariableEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventVariable},
			SessionID: b.id,
			Name:      name,
			Value:     value,
		})
	}
}

// Reset forgets the current line and all bindings, e.g. when the debuggee restarts.
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cur, b.hits = 0, 0
	b.vars = make(map[string]string)
	b.at = time.Now()
}

// Snapshot returns the current state with variables sorted by name.
func (b *Bridge) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ln, _ := b.listing.Line(b.cur)
	s := Snapshot{
		SessionID: b.id,
		Line:      b.cur,
		Node:      ln.Node,
		Function:  ln.Function,
		Variables: make([]Variable, 0, len(b.vars)),
		Hits:      b.hits,
		UpdatedAt: b.at,
	}
	for _, name := range slices.Sorted(maps.Keys(b.vars)) {
		s.Variables = append(s.Variables, Variable{Name: name, Value: b.vars[name]})
	}
	return s
}
