package validator

import (
	"errors"
	"testing"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReady(t *testing.T) {
	p, err := dsl.Program("ok").Func(dsl.Main().Declare("int", "x", "1")).Build()
	require.NoError(t, err)
	assert.NoError(t, Ready(p))

	b := dsl.Main().Node(&domain.Assignment{Name: "x"}).Node(&domain.Conditional{})
	p, err = dsl.Program("bad").Func(b).Build()
	require.NoError(t, err)

	err = Ready(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotReady))
	assert.Len(t, ValidationErrors(err), 2)
	assert.Contains(t, err.Error(), "2 validation errors")

	var verr *ValidationError
	require.True(t, errors.As(ValidationErrors(err)[1], &verr))
	assert.Equal(t, "main", verr.Function)
	assert.Equal(t, domain.KindConditional, verr.Kind)
}

func TestCheck(t *testing.T) {
	b := dsl.Main().Input("ghost")
	ghost := b.Last()
	p, err := dsl.Program("p").Func(b).Build()
	require.NoError(t, err)

	f, _ := p.Main()
	orphan := domain.NewNode(&domain.Output{Format: "x"})
	restored, err := domain.Restore(
		append(f.Nodes(), orphan),
		append(f.Connections(), domain.Connection{Src: f.End().Tag, Dst: domain.Tag(1 << 62)}),
	)
	require.NoError(t, err)
	p, err = domain.RestoreProgram("p", nil, restored)
	require.NoError(t, err)

	issues := Check(p)
	require.Len(t, issues, 3)
	assert.Contains(t, issues[0].Message, "dangling")
	assert.Equal(t, ghost.Tag, issues[1].Node)
	assert.Equal(t, orphan.Tag, issues[2].Node)
	assert.False(t, HasErrors(issues))

	require.NoError(t, restored.AddConnection(domain.Connection{Src: orphan.Tag, Dst: f.End().Tag}))
	assert.True(t, HasErrors(Check(p)))
}
