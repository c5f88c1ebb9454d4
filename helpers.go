package listctl

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/listctl/lib/encoding"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    listctl.Render(w, r, page(vc))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// WantsJSON returns true if the request asks for the serialized tree rather
// than a page, as the widget does when it refreshes in place.
func WantsJSON(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// WantsMsgpack returns true if the request accepts msgpack state.
func WantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), encoding.FormatMsgpack.ContentType())
}

// WriteState writes the initial state of a bound tree in format.
//
// Binding errors are not written; the caller decides how to report them.
func WriteState(w http.ResponseWriter, b *Binder, format encoding.Format) error {
	data, err := MarshalState(b, format)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, err = w.Write(data)
	return err
}

// StateFormat picks the state format for a request: msgpack when accepted,
// JSON otherwise.
func StateFormat(r *http.Request) encoding.Format {
	if WantsMsgpack(r) {
		return encoding.FormatMsgpack
	}
	return encoding.FormatJSON
}
