package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pthm/listctl"
	"github.com/pthm/listctl/lib/assets"
)

// server serves the product list pages.
type server struct {
	store    *Store
	registry *listctl.Registry
	assets   *assets.Loader
	metrics  *metrics
	logger   *slog.Logger
	pageSize int
}

type view struct {
	name    string
	title   string
	builder listctl.TreeBuilder
}

func newServer(cfg *Config, store *Store, logger *slog.Logger) (*server, []view, error) {
	catalog, err := catalogControls()
	if err != nil {
		return nil, nil, err
	}
	views := []view{
		{name: "products", title: "Products", builder: listctl.BuildFunc(productControls)},
		{name: "catalog", title: "Catalog", builder: catalog},
	}

	reg := listctl.NewRegistry([]byte(cfg.Key), listctl.WithRegistryLogger(logger))
	for _, v := range views {
		reg.Add(v.name, v.builder)
	}

	return &server{
		store:    store,
		registry: reg,
		assets: assets.NewLoader(cfg.Manifest,
			assets.WithStaticURL(cfg.StaticURL),
			assets.WithDebug(cfg.Debug)),
		metrics:  newMetrics(),
		logger:   logger,
		pageSize: cfg.PageSize,
	}, views, nil
}

func (s *server) routes(views []view) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+views[0].name, http.StatusFound)
	})
	for _, v := range views {
		r.Get("/"+v.name, s.handleList(v))
	}
	r.Handle("/_lc/*", s.registry.Handler())
	r.Handle("/metrics", s.metrics.handler())
	return r
}

func (s *server) handleList(v view) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := s.registry.Bind(v.name, r)
		s.metrics.observe(v.name, b, err)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		if listctl.WantsJSON(r) || listctl.WantsMsgpack(r) {
			if err := listctl.WriteState(w, b, listctl.StateFormat(r)); err != nil {
				s.fail(w, r, err)
			}
			return
		}

		q := listctl.ApplyControls(b, NewProductQuery(s.pageSize))
		products, err := s.store.List(r.Context(), q)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		manifest, err := s.assets.Load()
		if err != nil {
			s.logger.Warn("widget assets unavailable", "error", err)
			manifest = nil
		}
		vc, err := listctl.NewViewContext(b, manifest)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if err := listctl.Render(w, r, listPage(v.title, vc, products)); err != nil {
			s.logger.Error("render failed", "view", v.name, "error", err)
		}
	}
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if listctl.IsTokenError(err) {
		status = http.StatusBadRequest
	}
	s.logger.Error("list request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err)
	http.Error(w, http.StatusText(status), status)
}
