package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/aretw0/flowc/pkg/adapters/memory"
	"github.com/aretw0/flowc/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPI_Valid(t *testing.T) {
	doc, err := OpenAPI()
	require.NoError(t, err)
	assert.Equal(t, "flowc", doc.Info.Title)
}

func TestOpenAPI_CoversRoutes(t *testing.T) {
	doc, err := OpenAPI()
	require.NoError(t, err)

	s := &Server{Manager: session.NewManager(memory.NewStore()), metrics: http.NotFoundHandler()}
	err = chi.Walk(s.router(), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		path := strings.TrimSuffix(route, "/")
		item := doc.Paths.Find(path)
		if assert.NotNil(t, item, "route %s is not documented", path) {
			assert.NotNil(t, item.GetOperation(method), "%s %s is not documented", method, path)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestGetOpenAPI(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"operationId":"addNode"`)
}
