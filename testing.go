package listctl

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/pthm/listctl/lib/encoding"
)

// TestResult holds a bound tree for testing.
//
// Provides convenience methods for asserting on the bound controls, the
// summary and the serialized state.
type TestResult struct {
	Binder  *Binder
	Root    Node
	State   map[string]any
	Summary []SummaryEntry
}

// TestBind binds a fresh tree from builder to a raw query string and
// serializes it.
//
// Use this for unit tests of tree declarations:
//
//	result, err := listctl.TestBind(listctl.BuildFunc(controls), "layout=list&q=shoes")
//	if !result.HasSummaryEntry("q", "shoes") {
//	    t.Fatal("missing search entry")
//	}
func TestBind(builder TreeBuilder, rawQuery string) (*TestResult, error) {
	return testBind(builder, ParseQuery(rawQuery))
}

// TestBindValues is TestBind for pre-built parameters.
func TestBindValues(builder TreeBuilder, values url.Values) (*TestResult, error) {
	return testBind(builder, Query(values))
}

func testBind(builder TreeBuilder, params Params) (*TestResult, error) {
	b := NewBinder(builder)
	if err := b.Bind(params); err != nil {
		return nil, err
	}
	summary := b.Summary()
	state, err := b.Serialize()
	if err != nil {
		return nil, err
	}
	return &TestResult{
		Binder:  b,
		Root:    b.Root(),
		State:   state,
		Summary: summary,
	}, nil
}

// TestRequest runs handler against a GET request for target and returns
// the recorded response.
//
//	rec := listctl.TestRequest(handler, "/products/?layout=grid", true)
//	if rec.Code != http.StatusOK { ... }
func TestRequest(handler http.Handler, target string, wantJSON bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if wantJSON {
		req.Header.Set("Accept", encoding.FormatJSON.ContentType())
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// FindByName returns the first named control with the given name.
func (r *TestResult) FindByName(name string) Named {
	for n := range Flatten(r.Root) {
		if named, ok := n.(Named); ok && named.Name() == name {
			return named
		}
	}
	return nil
}

// FindByKind returns every node of kind, in tree order.
func (r *TestResult) FindByKind(kind Kind) []Node {
	var out []Node
	for n := range Flatten(r.Root) {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	return out
}

// HasSummaryEntry checks if the summary has an entry for name with value.
func (r *TestResult) HasSummaryEntry(name, value string) bool {
	for _, e := range r.Summary {
		if e.Name == name && e.Value == value {
			return true
		}
	}
	return false
}

// SummaryNames returns the names of the summary entries, in order.
func (r *TestResult) SummaryNames() []string {
	names := make([]string, 0, len(r.Summary))
	for _, e := range r.Summary {
		names = append(names, e.Name)
	}
	return names
}

// SelectedValue returns the value of the selected option named name, or
// the empty string.
func (r *TestResult) SelectedValue(name string) string {
	for n := range Flatten(r.Root) {
		if s, ok := n.(selectable); ok && s.Name() == name && s.IsSelected() {
			if v, ok := n.(interface{ Value() string }); ok {
				return v.Value()
			}
		}
	}
	return ""
}

// HasText checks if any Text node of the bound tree contains substr.
func (r *TestResult) HasText(substr string) bool {
	for n := range Flatten(r.Root) {
		if t, ok := n.(*Text); ok && strings.Contains(t.Content, substr) {
			return true
		}
	}
	return false
}
