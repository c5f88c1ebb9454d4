package listctl

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm/listctl/lib/encoding"
)

func TestInitialState(t *testing.T) {
	b := NewBinder(BuildFunc(func() Node { return NewListControls() }))
	if _, err := InitialState(b); !errors.Is(err, ErrNotBound) {
		t.Errorf("InitialState before Bind error = %v, want ErrNotBound", err)
	}
	if err := b.Bind(ParseQuery("")); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	state, err := InitialState(b)
	if err != nil {
		t.Fatalf("InitialState: %v", err)
	}
	tree, ok := state[StateKey].(map[string]any)
	if !ok || tree["kind"] != "list_controls" {
		t.Errorf("state = %#v", state)
	}
}

func TestMarshalStateFormats(t *testing.T) {
	for _, format := range []encoding.Format{encoding.FormatJSON, encoding.FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			b := NewBinder(summaryTree(NewSummary()))
			if err := b.Bind(ParseQuery("name=shoe")); err != nil {
				t.Fatalf("Bind: %v", err)
			}
			data, err := MarshalState(b, format)
			if err != nil {
				t.Fatalf("MarshalState: %v", err)
			}

			var decoded map[string]any
			if err := encoding.UnmarshalState(data, format, &decoded); err != nil {
				t.Fatalf("UnmarshalState: %v", err)
			}
			tree, ok := decoded[StateKey].(map[string]any)
			if !ok {
				t.Fatalf("decoded = %#v", decoded)
			}
			if tree["kind"] != "list_controls" {
				t.Errorf("kind = %v", tree["kind"])
			}
		})
	}
}

func TestStateTokenRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	for _, sensitive := range []bool{false, true} {
		b := NewBinder(summaryTree(NewSummary()))
		query := url.Values{
			"name":   {"shoe"},
			"color":  {"foo"},
			"q":      {"red"},
			"page":   {"3"},
			"layout": {"list"},
		}
		if err := b.Bind(Query(query)); err != nil {
			t.Fatalf("Bind: %v", err)
		}

		token, err := StateToken(enc, b, query, sensitive)
		if err != nil {
			t.Fatalf("StateToken: %v", err)
		}
		restored, err := RestoreQuery(enc, token, sensitive)
		if err != nil {
			t.Fatalf("RestoreQuery: %v", err)
		}

		want := Query{
			"name":   {"shoe"},
			"color":  {"foo"},
			"q":      {"red"},
			"layout": {"list"},
		}
		if diff := cmp.Diff(want, restored); diff != "" {
			t.Errorf("sensitive=%v restored mismatch (-want +got):\n%s", sensitive, diff)
		}
	}
}

func TestRestoreQueryTampered(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))
	other, _ := NewEncoder([]byte("other-key"))

	b := NewBinder(summaryTree(NewSummary()))
	if err := b.Bind(ParseQuery("name=x")); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	token, err := StateToken(other, b, url.Values{"name": {"x"}}, false)
	if err != nil {
		t.Fatalf("StateToken: %v", err)
	}

	_, err = RestoreQuery(enc, token, false)
	if !IsTokenError(err) {
		t.Errorf("RestoreQuery error = %v, want token error", err)
	}
	if !errors.Is(err, encoding.ErrSignatureInvalid) {
		t.Errorf("RestoreQuery error = %v, want ErrSignatureInvalid in chain", err)
	}

	if _, err := RestoreQuery(enc, "garbage", false); !IsTokenError(err) {
		t.Errorf("garbage token error = %v, want token error", err)
	}
}
