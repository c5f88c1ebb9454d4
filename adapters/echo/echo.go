// Package listctlecho provides Echo framework integration for listctl.
//
// Serve the state of registered list views from an Echo instance or group:
//
//	e := echo.New()
//	reg := listctlecho.Mount(e)
//	reg.Add("products", listctl.BuildFunc(productControls))
//
// Or bind a tree directly in a route:
//
//	e.GET("/products/state", listctlecho.Handler(listctl.BuildFunc(productControls)))
package listctlecho

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/listctl"
)

// Option configures Mount, MountGroup and Handler.
type Option func(*options)

type options struct {
	key    []byte
	path   string
	logger *slog.Logger
}

// WithKey sets the state token key for the registry.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL path prefix for view routes.
// Defaults to "/_lc/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithLogger sets the logger used while binding.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Mount creates a registry and serves its views on an Echo instance.
//
//	e := echo.New()
//	reg := listctlecho.Mount(e)
//	reg.Add("products", builder)
//
//	// With options:
//	reg := listctlecho.Mount(e, listctlecho.WithKey(key))
func Mount(e *echo.Echo, opts ...Option) *listctl.Registry {
	reg, path := newRegistry(opts)
	e.GET(path+"*", serveViews(reg))
	return reg
}

// MountGroup creates a registry and serves its views on an Echo group.
// This allows views to share middleware with the group (auth, logging, etc.).
//
//	g := e.Group("/admin", authMiddleware)
//	reg := listctlecho.MountGroup(g)
//	reg.Add("products", builder)
func MountGroup(g *echo.Group, opts ...Option) *listctl.Registry {
	reg, path := newRegistry(opts)
	g.GET(path+"*", serveViews(reg))
	return reg
}

func serveViews(reg *listctl.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		reg.ServeView(c.Response(), c.Request(), strings.Trim(c.Param("*"), "/"))
		return nil
	}
}

func newRegistry(opts []Option) (*listctl.Registry, string) {
	o := newOptions(opts)

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("listctlecho: failed to generate random key: %v", err))
		}
	}

	reg := listctl.NewRegistry(key,
		listctl.WithPrefix(o.path),
		listctl.WithRegistryLogger(o.logger),
	)
	return reg, o.path
}

func newOptions(opts []Option) *options {
	o := &options{path: "/_lc/", logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Handler binds a fresh tree from builder to the request query and writes
// the serialized state as JSON, or msgpack when the client accepts it.
//
// Configuration errors are returned to Echo's error handler as a 500.
func Handler(builder listctl.TreeBuilder, opts ...Option) echo.HandlerFunc {
	o := newOptions(opts)
	return func(c echo.Context) error {
		b, err := Bind(c, builder, listctl.WithLogger(o.logger))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
		}
		return listctl.WriteState(c.Response(), b, listctl.StateFormat(c.Request()))
	}
}

// Bind binds a fresh tree from builder to the request query.
//
//	func products(c echo.Context) error {
//	    b, err := listctlecho.Bind(c, builder)
//	    if err != nil {
//	        return err
//	    }
//	    items := listctl.ApplyControls(b, store.Query())
//	    ...
//	}
func Bind(c echo.Context, builder listctl.TreeBuilder, opts ...listctl.BinderOption) (*listctl.Binder, error) {
	b := listctl.NewBinder(builder, opts...)
	if err := b.Bind(listctl.Query(c.QueryParams())); err != nil {
		return nil, err
	}
	return b, nil
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return listctlecho.Render(c, page(vc))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
