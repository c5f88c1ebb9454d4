// Package encoding turns list-controls state into bytes: the serialized
// tree for the client (JSON or msgpack), and opaque tokens that carry a
// set of active control parameters across requests.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors for token decoding.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid token format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
	ErrUnknownFormat    = errors.New("encoding: unknown state format")
)

// Format selects the wire format of serialized state.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a format name; the empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// MarshalState encodes a serialized tree (or summary) in the given format.
func MarshalState(v any, format Format) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		return json.Marshal(v)
	case FormatMsgpack:
		return msgpack.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// UnmarshalState decodes state produced by MarshalState.
func UnmarshalState(data []byte, format Format, v any) error {
	switch format {
	case "", FormatJSON:
		return json.Unmarshal(data, v)
	case FormatMsgpack:
		return msgpack.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Encoder turns parameter sets into tokens and back. Tokens are signed
// with HMAC-SHA256, readable but tamper-evident, or, for sensitive
// parameters, sealed with AES-256-GCM.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder returns an encoder keyed by key. Keys shorter than 32 bytes
// are stretched with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		key: key,
		gcm: gcm,
	}, nil
}

// Encode packs params (keys sorted, values in order) into a token.
// If sensitive is true, the token is encrypted; otherwise it's signed.
func (e *Encoder) Encode(params url.Values, sensitive bool) (string, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, append([]string{k}, params[k]...))
	}

	packed, err := msgpack.Marshal(pairs)
	if err != nil {
		return "", err
	}

	if sensitive {
		return e.encrypt(packed)
	}
	return e.sign(packed)
}

// Decode unpacks a token produced by Encode with the same sensitivity.
func (e *Encoder) Decode(token string, sensitive bool) (url.Values, error) {
	var packed []byte
	var err error

	if sensitive {
		packed, err = e.decrypt(token)
	} else {
		packed, err = e.verify(token)
	}
	if err != nil {
		return nil, err
	}

	var pairs [][]string
	if err := msgpack.Unmarshal(packed, &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	params := make(url.Values, len(pairs))
	for _, p := range pairs {
		if len(p) == 0 {
			return nil, ErrInvalidFormat
		}
		params[p[0]] = append(params[p[0]], p[1:]...)
	}
	return params, nil
}

// macLen is the truncated HMAC length carried by signed tokens.
const macLen = 16

func (e *Encoder) mac(data []byte) []byte {
	h := hmac.New(sha256.New, e.key)
	h.Write(data)
	return h.Sum(nil)[:macLen]
}

// sign returns "<payload>.<mac>", both base64url without padding.
func (e *Encoder) sign(data []byte) (string, error) {
	enc := base64.RawURLEncoding
	return enc.EncodeToString(data) + "." + enc.EncodeToString(e.mac(data)), nil
}

func (e *Encoder) verify(token string) ([]byte, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidFormat
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if !hmac.Equal(got, e.mac(data)) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

// encrypt returns base64url(nonce || AES-GCM ciphertext).
func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize(), e.gcm.NonceSize()+len(data)+e.gcm.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(e.gcm.Seal(nonce, nonce, data, nil)), nil
}

func (e *Encoder) decrypt(token string) ([]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	n := e.gcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrDecryptFailed
	}
	data, err := e.gcm.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return data, nil
}
