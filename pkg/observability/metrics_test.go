package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnGenerate(ctx, &domain.GenerateEvent{Program: "calc", Lines: 12, Duration: time.Millisecond})
	hooks.OnGenerate(ctx, &domain.GenerateEvent{Program: "calc", Lines: 14, Duration: time.Millisecond})
	hooks.OnLineHit(ctx, &domain.LineHitEvent{Function: "main", Line: 3})
	hooks.OnVariable(ctx, &domain.VariableEvent{SessionID: "s1", Name: "x", Value: "1"})

	count, err := testutil.GatherAndCount(m.Registry(),
		"flowc_generations_total", "flowc_source_lines", "flowc_debug_line_hits_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `flowc_generations_total{program="calc"} 2`)
	assert.Contains(t, body, `flowc_source_lines{program="calc"} 14`)
	assert.Contains(t, body, `flowc_debug_variables_total{session="s1"} 1`)
}

func TestCombine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var hits int
	counting := domain.LifecycleHooks{
		OnLineHit: func(context.Context, *domain.LineHitEvent) { hits++ },
	}

	hooks := observability.Combine(counting, observability.LogHooks(logger), domain.LifecycleHooks{})
	ctx := context.Background()
	hooks.OnLineHit(ctx, &domain.LineHitEvent{SessionID: "s1", Line: 7, Node: 42, Function: "main"})
	hooks.OnGenerate(ctx, &domain.GenerateEvent{Program: "calc"})
	hooks.OnVariable(ctx, &domain.VariableEvent{Name: "x", Value: "1"})

	assert.Equal(t, 1, hits)
	out := buf.String()
	assert.Contains(t, out, "msg=line_hit")
	assert.Contains(t, out, "line=7")
	assert.Contains(t, out, "program=calc")
	assert.Contains(t, out, "name=x")
}
