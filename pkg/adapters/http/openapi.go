package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPISpec []byte

var (
	specOnce sync.Once
	spec     *openapi3.T
	specErr  error
)

// OpenAPI returns the validated API description.
func OpenAPI() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openAPISpec)
		if err != nil {
			specErr = fmt.Errorf("failed to load openapi spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid openapi spec: %w", err)
			return
		}
		spec = doc
	})
	return spec, specErr
}

// GetOpenAPI handles the GET /openapi.json request.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := OpenAPI()
	if err != nil {
		s.writeError(w, "GetOpenAPI", err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}
