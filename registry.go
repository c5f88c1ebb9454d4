package listctl

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// StateParam is the query parameter carrying a state token. A request
// with a token binds the parameters packed in it, overridden by any
// parameter sent alongside.
const StateParam = "_state"

// StateHeader is the response header carrying the token of the bound
// parameters, for links that return to the same list view.
const StateHeader = "X-List-State"

// Registry serves the state of named list views over HTTP.
//
// Each view is a TreeBuilder registered under a name; GET {prefix}{name}/
// binds a fresh tree to the request's query and writes the serialized
// state. The widget calls it to refresh without a page load.
type Registry struct {
	mu      sync.RWMutex
	mux     *http.ServeMux
	encoder *Encoder
	views   map[string]TreeBuilder
	prefix  string
	logger  *slog.Logger

	// OnError is called when binding fails or a token is rejected.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPrefix sets the URL prefix the handler is mounted at. Defaults to
// "/_lc/".
func WithPrefix(prefix string) RegistryOption {
	return func(reg *Registry) {
		reg.prefix = "/" + strings.Trim(prefix, "/") + "/"
	}
}

// WithRegistryLogger sets the logger handed to every Binder.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(reg *Registry) {
		reg.logger = logger
	}
}

// NewRegistry creates a registry whose state tokens use key.
func NewRegistry(key []byte, opts ...RegistryOption) *Registry {
	enc, err := NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("listctl: failed to create encoder: %v", err))
	}

	reg := &Registry{
		mux:     http.NewServeMux(),
		encoder: enc,
		views:   make(map[string]TreeBuilder),
		prefix:  "/_lc/",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(reg)
	}
	reg.mux.HandleFunc(reg.prefix, func(w http.ResponseWriter, r *http.Request) {
		name := strings.Trim(strings.TrimPrefix(r.URL.Path, reg.prefix), "/")
		reg.OnError(w, r, fmt.Errorf("%w: %q", ErrUnknownView, name))
	})

	// Default error handler
	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case IsUnknownView(err):
			http.Error(w, "Not found", http.StatusNotFound)
		case IsTokenError(err):
			http.Error(w, "Bad request", http.StatusBadRequest)
		default:
			reg.logger.Error("listctl: bind failed", "path", r.URL.Path, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	}

	return reg
}

// Encoder returns the registry's state token encoder.
func (reg *Registry) Encoder() *Encoder {
	return reg.encoder
}

// Add registers a view. Panics on an empty or already registered name.
func (reg *Registry) Add(name string, builder TreeBuilder) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	name = strings.Trim(name, "/")
	if name == "" {
		panic("listctl: view name is required")
	}
	if _, exists := reg.views[name]; exists {
		panic(fmt.Sprintf("listctl: view %q already registered", name))
	}
	reg.views[name] = builder

	reg.mux.HandleFunc(reg.prefix+name+"/", func(w http.ResponseWriter, r *http.Request) {
		reg.serveView(w, r, builder)
	})
}

// Names returns the registered view names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.views))
	for name := range reg.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind binds a fresh tree of the named view to the request, restoring
// parameters from a state token when one is sent.
func (reg *Registry) Bind(name string, r *http.Request) (*Binder, error) {
	reg.mu.RLock()
	builder, ok := reg.views[name]
	reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	b, _, err := reg.bind(builder, r)
	return b, err
}

func (reg *Registry) bind(builder TreeBuilder, r *http.Request) (*Binder, Query, error) {
	params, err := reg.requestParams(r)
	if err != nil {
		return nil, nil, err
	}
	b := NewBinder(builder, WithLogger(reg.logger))
	if err := b.Bind(params); err != nil {
		return nil, nil, err
	}
	return b, params, nil
}

func (reg *Registry) requestParams(r *http.Request) (Query, error) {
	query := r.URL.Query()
	token := query.Get(StateParam)
	if token == "" {
		return Query(query), nil
	}
	restored, err := RestoreQuery(reg.encoder, token, false)
	if err != nil {
		return nil, err
	}
	query.Del(StateParam)
	for k, vs := range query {
		restored[k] = vs
	}
	return restored, nil
}

// ServeView binds the named view to r and writes its state. Routers that
// extract the view name from the path themselves use it instead of Handler.
func (reg *Registry) ServeView(w http.ResponseWriter, r *http.Request, name string) {
	reg.mu.RLock()
	builder, ok := reg.views[name]
	reg.mu.RUnlock()
	if !ok {
		reg.OnError(w, r, fmt.Errorf("%w: %q", ErrUnknownView, name))
		return
	}
	reg.serveView(w, r, builder)
}

func (reg *Registry) serveView(w http.ResponseWriter, r *http.Request, builder TreeBuilder) {
	b, params, err := reg.bind(builder, r)
	if err != nil {
		reg.OnError(w, r, err)
		return
	}
	token, err := StateToken(reg.encoder, b, url.Values(params), false)
	if err != nil {
		reg.OnError(w, r, err)
		return
	}
	w.Header().Set(StateHeader, token)
	if err := WriteState(w, b, StateFormat(r)); err != nil {
		reg.OnError(w, r, err)
	}
}

// Handler returns the HTTP handler for view routes.
// Mount this at the registry prefix ("/_lc/" by default).
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		reg.mux.ServeHTTP(w, r)
	})
}
