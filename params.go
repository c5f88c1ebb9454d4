package listctl

import (
	"net/http"
	"net/url"
)

// Params gives nodes read access to the inbound request parameters.
type Params interface {
	// Value returns the value for name and whether the key was present.
	// A present key may carry an empty value ("?name=").
	Value(name string) (string, bool)
	// Values returns every value sent for name, in request order.
	Values(name string) []string
}

// Query adapts url.Values to Params.
type Query url.Values

// Value returns the last value sent for name, matching how form libraries
// resolve a repeated single-valued key.
func (q Query) Value(name string) (string, bool) {
	vs, ok := q[name]
	if !ok {
		return "", false
	}
	if len(vs) == 0 {
		return "", true
	}
	return vs[len(vs)-1], true
}

// Values returns every value sent for name.
func (q Query) Values(name string) []string {
	return q[name]
}

// ParseQuery parses a raw query string ("a=1&b=2"). Malformed pairs are
// skipped.
func ParseQuery(raw string) Query {
	values, _ := url.ParseQuery(raw)
	return Query(values)
}

// QueryParams returns the request's URL query as Params.
func QueryParams(r *http.Request) Query {
	return Query(r.URL.Query())
}
