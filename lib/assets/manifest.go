// Package assets resolves the client widget's bundle files from a webpack
// manifest.
//
// The manifest is the file written by webpack-yam-plugin:
//
//	{"status": "done", "files": {"admin_list_controls": ["admin_list_controls/dist/admin_list_controls-3f2a.js"]}, "errors": null}
//
// Paths are relative to the static root and are prefixed with the static
// URL when resolved.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultTTL is how long a parsed manifest is reused before being re-read.
const DefaultTTL = 5 * time.Minute

// StatusDone is the manifest status once the bundle has been built.
const StatusDone = "done"

// ErrManifestNotReady is returned for a manifest whose build has not
// finished or has failed.
var ErrManifestNotReady = errors.New("assets: manifest not ready")

// Manifest lists the built files of each bundle.
type Manifest struct {
	Status string              `json:"status"`
	Files  map[string][]string `json:"files"`
	Errors any                 `json:"errors"`

	staticURL string
}

// URLs returns the URLs of every file of bundle.
func (m *Manifest) URLs(bundle string) []string {
	files := m.Files[bundle]
	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, joinURL(m.staticURL, f))
	}
	return urls
}

// JS returns the URLs of the bundle's scripts.
func (m *Manifest) JS(bundle string) []string {
	return filterExt(m.URLs(bundle), ".js")
}

// CSS returns the URLs of the bundle's stylesheets.
func (m *Manifest) CSS(bundle string) []string {
	return filterExt(m.URLs(bundle), ".css")
}

// Loader reads and caches a manifest. It is safe for concurrent use.
type Loader struct {
	path      string
	staticURL string
	debug     bool
	ttl       time.Duration
	fsys      fs.FS
	cache     *ttlcache.Cache[string, *Manifest]
}

// Option configures a Loader.
type Option func(*Loader)

// WithStaticURL sets the URL prefix of static files. Defaults to
// "/static/".
func WithStaticURL(url string) Option {
	return func(l *Loader) {
		l.staticURL = url
	}
}

// WithDebug disables caching so rebuilt bundles are picked up on the next
// request.
func WithDebug(debug bool) Option {
	return func(l *Loader) {
		l.debug = debug
	}
}

// WithTTL sets how long a parsed manifest is reused.
func WithTTL(ttl time.Duration) Option {
	return func(l *Loader) {
		l.ttl = ttl
	}
}

// WithFS reads the manifest from fsys instead of the OS filesystem.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// NewLoader creates a loader for the manifest at path.
func NewLoader(path string, opts ...Option) *Loader {
	l := &Loader{
		path:      path,
		staticURL: "/static/",
		ttl:       DefaultTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cache = ttlcache.New[string, *Manifest](
		ttlcache.WithTTL[string, *Manifest](l.ttl),
		ttlcache.WithDisableTouchOnHit[string, *Manifest](),
	)
	return l
}

// Load returns the manifest, reading it when the cached copy has expired
// (always, in debug mode).
func (l *Loader) Load() (*Manifest, error) {
	if !l.debug {
		if item := l.cache.Get(l.path); item != nil {
			return item.Value(), nil
		}
	}

	m, err := l.read()
	if err != nil {
		return nil, err
	}
	if !l.debug {
		l.cache.Set(l.path, m, ttlcache.DefaultTTL)
	}
	return m, nil
}

// Invalidate drops the cached manifest.
func (l *Loader) Invalidate() {
	l.cache.Delete(l.path)
}

func (l *Loader) read() (*Manifest, error) {
	var data []byte
	var err error
	if l.fsys != nil {
		data, err = fs.ReadFile(l.fsys, l.path)
	} else {
		data, err = os.ReadFile(l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: read manifest: %w", err)
	}

	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("assets: parse manifest %s: %w", l.path, err)
	}
	if m.Status != StatusDone {
		return nil, fmt.Errorf("%w: status %q", ErrManifestNotReady, m.Status)
	}
	m.staticURL = l.staticURL
	return m, nil
}

func joinURL(prefix, file string) string {
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return file
	}
	if strings.HasPrefix(prefix, "http://") || strings.HasPrefix(prefix, "https://") {
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
	}
	return path.Join("/", prefix, file)
}

func filterExt(urls []string, ext string) []string {
	var out []string
	for _, u := range urls {
		if strings.HasSuffix(u, ext) {
			out = append(out, u)
		}
	}
	return out
}
