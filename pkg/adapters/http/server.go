package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/internal/dto"
	"github.com/aretw0/flowc/internal/logging"
	"github.com/aretw0/flowc/internal/presentation/graph"
	"github.com/aretw0/flowc/internal/validator"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/aretw0/flowc/pkg/persistence/middleware"
	"github.com/aretw0/flowc/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server exposes programs over a JSON API. Every mutation goes through the
// session manager, so concurrent editors never lose each other's changes.
type Server struct {
	Manager  *session.Manager
	Compiler *flowc.Compiler
	Streams  *StreamManager

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCompiler sets the compiler used for the source and breakpoint views.
func WithCompiler(c *flowc.Compiler) Option {
	return func(s *Server) {
		s.Compiler = c
	}
}

// WithMetrics mounts a Prometheus handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the API.
func NewHandler(manager *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Manager:  manager,
		Compiler: flowc.New(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return enableCORS(s.router())
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.json", s.GetOpenAPI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", s.ListPrograms)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetProgram)
			r.Put("/", s.PutProgram)
			r.Delete("/", s.DeleteProgram)
			r.Get("/source", s.GetSource)
			r.Get("/breakpoints", s.GetBreakpoints)
			r.Get("/issues", s.GetIssues)
			r.Get("/events", s.SubscribeEvents)
			r.Route("/functions/{fn}", func(r chi.Router) {
				r.Get("/graph", s.GetGraph)
				r.Post("/nodes", s.AddNode)
				r.Delete("/nodes/{tag}", s.RemoveNode)
				r.Patch("/nodes/{tag}/breakpoint", s.SetBreakpoint)
			})
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "flowc-http",
		"version": strings.TrimSpace(flowc.Version),
	})
}

// ListPrograms handles the GET /programs request.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Manager.List(r.Context())
	if err != nil {
		s.writeError(w, "List", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetProgram handles the GET /programs/{name} request.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	p, err := s.Manager.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetProgram", err)
		return
	}
	doc, err := dto.FromProgram(p)
	if err != nil {
		s.writeError(w, "GetProgram", err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// PutProgram handles the PUT /programs/{name} request. The URL wins over
// the document name.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var doc dto.ProgramDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutProgram: Invalid request body", "err", err)
		return
	}
	doc.Name = name

	// an empty document means a fresh program with just main
	p := domain.NewProgram(name)
	p.Headers = doc.Headers
	if len(doc.Functions) > 0 {
		var err error
		if p, err = doc.ToProgram(); err != nil {
			s.writeError(w, "PutProgram", err)
			return
		}
	}

	if err := s.Manager.Save(r.Context(), p); err != nil {
		s.writeError(w, "PutProgram", err)
		return
	}
	s.broadcast(name, Change{Kind: ChangeSaved})
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProgram handles the DELETE /programs/{name} request.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Manager.Delete(r.Context(), name); err != nil {
		s.writeError(w, "DeleteProgram", err)
		return
	}
	s.broadcast(name, Change{Kind: ChangeDeleted})
	w.WriteHeader(http.StatusNoContent)
}

// GetSource handles the GET /programs/{name}/source request. It answers
// with the C text, or with the full listing when format=json. The artifact
// also goes to the compiler sink, if one is configured.
func (s *Server) GetSource(w http.ResponseWriter, r *http.Request) {
	p, err := s.Manager.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetSource", err)
		return
	}
	listing, _, err := s.Compiler.Emit(r.Context(), p)
	if err != nil {
		s.writeError(w, "GetSource", err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		s.writeJSON(w, http.StatusOK, listing)
		return
	}
	w.Header().Set("Content-Type", "text/x-c; charset=utf-8")
	fmt.Fprint(w, listing.Source())
}

// GetBreakpoints handles the GET /programs/{name}/breakpoints request.
func (s *Server) GetBreakpoints(w http.ResponseWriter, r *http.Request) {
	p, err := s.Manager.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetBreakpoints", err)
		return
	}
	art, _, err := s.Compiler.Artifact(r.Context(), p)
	if err != nil {
		s.writeError(w, "GetBreakpoints", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, art.Breakpoints)
}

// GetIssues handles the GET /programs/{name}/issues request.
func (s *Server) GetIssues(w http.ResponseWriter, r *http.Request) {
	p, err := s.Manager.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetIssues", err)
		return
	}
	issues := validator.Check(p)
	if issues == nil {
		issues = []validator.Issue{}
	}
	s.writeJSON(w, http.StatusOK, issues)
}

// GetGraph handles the GET /programs/{name}/functions/{fn}/graph request.
// The optional current query parameter highlights a node.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	p, err := s.Manager.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetGraph", err)
		return
	}
	fn := chi.URLParam(r, "fn")
	f, ok := p.Function(fn)
	if !ok {
		s.writeError(w, "GetGraph", fmt.Errorf("%w: %s", domain.ErrFunctionNotFound, fn))
		return
	}

	current, err := queryTag(r, "current")
	if err != nil {
		http.Error(w, "Invalid node tag", http.StatusBadRequest)
		return
	}
	var overlay *graph.GraphOverlay
	if current != domain.NoTag {
		overlay = &graph.GraphOverlay{Current: current}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(f, overlay))
}

// AddNode handles the POST /programs/{name}/functions/{fn}/nodes request.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	name, fn := chi.URLParam(r, "name"), chi.URLParam(r, "fn")
	var req dto.NodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("AddNode: Invalid request body", "err", err)
		return
	}

	var n *domain.Node
	_, err := s.Manager.Edit(r.Context(), name, func(p *domain.Program) error {
		var err error
		n, err = req.Apply(p, fn)
		return err
	})
	if err != nil {
		s.writeError(w, "AddNode", err)
		return
	}

	doc, err := dto.FromNode(n)
	if err != nil {
		s.writeError(w, "AddNode", err)
		return
	}
	s.broadcast(name, Change{Kind: ChangeNodeAdded, Function: fn, Node: n.Tag})
	s.writeJSON(w, http.StatusCreated, doc)
}

// RemoveNode handles the DELETE /programs/{name}/functions/{fn}/nodes/{tag}
// request. Blocks with children need cascade=true.
func (s *Server) RemoveNode(w http.ResponseWriter, r *http.Request) {
	name, fn := chi.URLParam(r, "name"), chi.URLParam(r, "fn")
	tag, err := pathTag(r)
	if err != nil {
		http.Error(w, "Invalid node tag", http.StatusBadRequest)
		return
	}
	cascade, err := queryBool(r, "cascade")
	if err != nil {
		http.Error(w, "Invalid cascade flag", http.StatusBadRequest)
		return
	}

	_, err = s.Manager.Edit(r.Context(), name, func(p *domain.Program) error {
		f, ok := p.Function(fn)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrFunctionNotFound, fn)
		}
		if cascade {
			return f.RemoveCascade(tag)
		}
		return f.RemoveNode(tag)
	})
	if err != nil {
		s.writeError(w, "RemoveNode", err)
		return
	}
	s.broadcast(name, Change{Kind: ChangeNodeRemoved, Function: fn, Node: tag})
	w.WriteHeader(http.StatusNoContent)
}

// BreakpointRequest is the body of the breakpoint toggle.
type BreakpointRequest struct {
	BreakPoint bool `json:"break_point"`
}

// SetBreakpoint handles the PATCH .../nodes/{tag}/breakpoint request.
func (s *Server) SetBreakpoint(w http.ResponseWriter, r *http.Request) {
	name, fn := chi.URLParam(r, "name"), chi.URLParam(r, "fn")
	tag, err := pathTag(r)
	if err != nil {
		http.Error(w, "Invalid node tag", http.StatusBadRequest)
		return
	}
	var body BreakpointRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	_, err = s.Manager.Edit(r.Context(), name, func(p *domain.Program) error {
		f, ok := p.Function(fn)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrFunctionNotFound, fn)
		}
		n, ok := f.FindNode(tag)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, tag)
		}
		n.BreakPoint = body.BreakPoint
		return nil
	})
	if err != nil {
		s.writeError(w, "SetBreakpoint", err)
		return
	}
	s.broadcast(name, Change{Kind: ChangeBreakpoint, Function: fn, Node: tag})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) broadcast(program string, c Change) {
	c.Program = program
	if bytes, err := json.Marshal(c); err == nil {
		s.Streams.Broadcast(program, string(bytes))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "err", err)
	}
	http.Error(w, err.Error(), status)
}

// StatusOf maps an error to an HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrProgramNotFound),
		errors.Is(err, domain.ErrFunctionNotFound),
		errors.Is(err, domain.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrHasChildren),
		errors.Is(err, domain.ErrSlotOccupied),
		errors.Is(err, domain.ErrDuplicateNode),
		errors.Is(err, domain.ErrDuplicateFunction):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidNode),
		errors.Is(err, domain.ErrSlotOutOfRange),
		errors.Is(err, domain.ErrProtectedNode):
		return http.StatusBadRequest
	case errors.Is(err, middleware.ErrReadOnly):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
