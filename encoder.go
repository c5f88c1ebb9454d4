package listctl

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/pthm/listctl/lib/encoding"
)

// StateKey is the object key wrapping the tree in the client's initial
// state.
const StateKey = "admin_list_controls"

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// NewEncoder creates a state token encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// InitialState serializes the bound tree wrapped as the client expects it:
// {"admin_list_controls": tree}.
func InitialState(b *Binder) (map[string]any, error) {
	tree, err := b.Serialize()
	if err != nil {
		return nil, err
	}
	return map[string]any{StateKey: tree}, nil
}

// MarshalState encodes the initial state of a bound tree in format.
func MarshalState(b *Binder, format encoding.Format) ([]byte, error) {
	state, err := InitialState(b)
	if err != nil {
		return nil, err
	}
	return encoding.MarshalState(state, format)
}

// StateToken packs the parameters of params that belong to the tree (its
// controls and summary search) into a token. Pass the token back to
// RestoreQuery to rebuild the same list view later, e.g. after editing an
// item.
func StateToken(enc *Encoder, b *Binder, params url.Values, sensitive bool) (string, error) {
	kept := url.Values{}
	for _, name := range b.stateParams() {
		if vs, ok := params[name]; ok {
			kept[name] = vs
		}
	}
	return enc.Encode(kept, sensitive)
}

// RestoreQuery decodes a token made by StateToken.
func RestoreQuery(enc *Encoder, token string, sensitive bool) (Query, error) {
	params, err := enc.Decode(token, sensitive)
	if err != nil {
		return nil, wrapEncodingError(err)
	}
	return Query(params), nil
}

func (b *Binder) stateParams() []string {
	names := append([]string(nil), b.names...)
	if b.root == nil {
		return names
	}
	for n := range Flatten(b.root) {
		if s, ok := n.(*Summary); ok && s.SearchParam != "" {
			names = append(names, s.SearchParam)
		}
	}
	return names
}

// wrapEncodingError wraps encoding package errors with the listctl sentinel.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed) {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return err
}
