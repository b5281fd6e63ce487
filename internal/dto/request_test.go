package dto_test

import (
	"testing"

	"github.com/aretw0/flowc/internal/dto"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRequest_Apply(t *testing.T) {
	p := domain.NewProgram("edit")
	main, _ := p.Main()

	req := dto.NodeRequest{
		Parent:     main.Root().Tag,
		Type:       domain.KindDeclaration,
		Fields:     map[string]any{"type": "int", "name": "x", "value": 5},
		BreakPoint: true,
	}
	n, err := req.Apply(p, "main")
	require.NoError(t, err)
	assert.True(t, n.BreakPoint)
	assert.Equal(t, &domain.Declaration{Type: "int", Name: "x", Value: "5"}, n.Stmt)

	doc, err := dto.FromNode(n)
	require.NoError(t, err)
	assert.Equal(t, domain.KindDeclaration, doc.Type)
	assert.Equal(t, "x", doc.Fields["name"])

	tests := []struct {
		name     string
		function string
		req      dto.NodeRequest
		want     error
	}{
		{"Unknown Function", "nope", req, domain.ErrFunctionNotFound},
		{"Unknown Type", "main", dto.NodeRequest{Parent: main.Root().Tag, Type: "goto"}, domain.ErrInvalidNode},
		{"Unknown Field", "main", dto.NodeRequest{Parent: main.Root().Tag, Type: domain.KindInput, Fields: map[string]any{"nme": "x"}}, domain.ErrInvalidNode},
		{"Missing Parent", "main", dto.NodeRequest{Parent: 987654321, Type: domain.KindInput}, domain.ErrNodeNotFound},
		{"Bad Slot", "main", dto.NodeRequest{Parent: main.Root().Tag, SrcSlot: 3, Type: domain.KindInput}, domain.ErrSlotOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Apply(p, tt.function)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
