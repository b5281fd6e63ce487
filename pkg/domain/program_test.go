package domain_test

import (
	"testing"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram(t *testing.T) {
	p := domain.NewProgram("demo")
	main, ok := p.Main()
	require.True(t, ok)
	assert.Equal(t, "main", main.Name())

	helper := domain.NewFlowchart(&domain.FunctionStart{Name: "helper", ReturnType: "void"})
	require.NoError(t, p.AddFunction(helper))
	assert.ErrorIs(t, p.AddFunction(domain.NewFlowchart(&domain.FunctionStart{Name: "helper", ReturnType: "int"})), domain.ErrDuplicateFunction)
	assert.Len(t, p.Functions(), 2)

	got, ok := p.Function("helper")
	require.True(t, ok)
	assert.Same(t, helper, got)

	f, n, ok := p.FindNode(helper.End().Tag)
	require.True(t, ok)
	assert.Same(t, helper, f)
	assert.Equal(t, domain.KindFunctionEnd, n.Kind())

	assert.True(t, p.Ready())
	bad := add(t, helper, helper.Root().Tag, domain.SlotNext, &domain.Input{})
	assert.False(t, p.Ready())
	assert.Equal(t, []*domain.Node{bad}, p.Uninitialized()["helper"])

	clone := p.Clone()
	require.NoError(t, clone.RemoveFunction("helper"))
	assert.Len(t, p.Functions(), 2)
	assert.ErrorIs(t, clone.RemoveFunction("helper"), domain.ErrFunctionNotFound)
}
