package http

import (
	"fmt"
	"net/http"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// pathTag binds the {tag} path parameter.
func pathTag(r *http.Request) (domain.Tag, error) {
	var raw uint64
	err := runtime.BindStyledParameterWithLocation("simple", false, "tag", runtime.ParamLocationPath, chi.URLParam(r, "tag"), &raw)
	if err != nil {
		return domain.NoTag, err
	}
	if raw == 0 {
		return domain.NoTag, fmt.Errorf("tag must be positive")
	}
	return domain.Tag(raw), nil
}

// queryTag binds an optional tag query parameter, NoTag when absent.
func queryTag(r *http.Request, name string) (domain.Tag, error) {
	var raw uint64
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &raw); err != nil {
		return domain.NoTag, err
	}
	return domain.Tag(raw), nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	var v bool
	err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v)
	return v, err
}

// queryList binds a comma separated query parameter.
func queryList(r *http.Request, name string) ([]string, error) {
	var v []string
	err := runtime.BindQueryParameter("form", false, false, name, r.URL.Query(), &v)
	return v, err
}
