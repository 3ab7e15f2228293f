// Package pass covers the QR payload formats shared by the Annadanam and
// Pooja passes: encoding for freshly issued passes and a tolerant decoder for
// the scanner, which still meets payloads from every historical pass batch.
package pass

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind says which counter a scanned pass belongs to.
type Kind string

const (
	KindAnnadanam Kind = "anna"
	KindPooja     Kind = "pooja"
)

var ErrUnrecognized = errors.New("unrecognized pass payload")

// Payload is a decoded QR payload. ID may be empty for link-style payloads
// that carry only a token.
type Payload struct {
	Kind  Kind
	ID    string
	Token string
}

// AnnadanamURL builds the payload encoded into Annadanam pass QR codes. It is
// a working link so a phone camera outside the scanner app still lands on the
// pass page.
func AnnadanamURL(baseURL, bookingID, token string) string {
	return fmt.Sprintf("%s/anna?b=%s&t=%s",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(bookingID), url.QueryEscape(token))
}

// PoojaPayload builds the compact payload encoded into Pooja pass QR codes.
func PoojaPayload(bookingID, token string) string {
	return fmt.Sprintf("POOJA:%s:%s", bookingID, token)
}

// Decode parses a scanned payload in any of the accepted shapes: the
// ANNA:/POOJA: compact form, a pass URL, or the legacy JSON object.
func Decode(raw string) (Payload, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Payload{}, ErrUnrecognized
	}

	if rest, ok := cutPrefixFold(s, "ANNA:"); ok {
		return decodeCompact(KindAnnadanam, rest)
	}
	if rest, ok := cutPrefixFold(s, "POOJA:"); ok {
		return decodeCompact(KindPooja, rest)
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return decodeURL(s)
	}
	if strings.HasPrefix(s, "{") {
		return decodeJSON(s)
	}
	return Payload{}, ErrUnrecognized
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

// decodeCompact handles "<id>:<token>" and the older token-only form.
func decodeCompact(kind Kind, rest string) (Payload, error) {
	id, token, found := strings.Cut(rest, ":")
	if !found {
		if rest == "" {
			return Payload{}, ErrUnrecognized
		}
		return Payload{Kind: kind, Token: rest}, nil
	}
	if token == "" {
		return Payload{}, ErrUnrecognized
	}
	return Payload{Kind: kind, ID: id, Token: token}, nil
}

func decodeURL(s string) (Payload, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Payload{}, ErrUnrecognized
	}
	q := u.Query()
	token := q.Get("t")
	if token == "" {
		token = q.Get("token")
	}
	if token == "" {
		return Payload{}, ErrUnrecognized
	}
	id := q.Get("b")
	if id == "" {
		id = q.Get("id")
	}
	kind := KindAnnadanam
	if strings.Contains(strings.ToLower(u.Path), "pooja") {
		kind = KindPooja
	}
	return Payload{Kind: kind, ID: id, Token: token}, nil
}

func decodeJSON(s string) (Payload, error) {
	var body struct {
		T     string `json:"t"`
		Type  string `json:"type"`
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(s), &body); err != nil {
		return Payload{}, ErrUnrecognized
	}
	typ := body.T
	if typ == "" {
		typ = body.Type
	}
	var kind Kind
	switch strings.ToLower(typ) {
	case "anna", "annadanam":
		kind = KindAnnadanam
	case "pooja":
		kind = KindPooja
	default:
		return Payload{}, ErrUnrecognized
	}
	if body.Token == "" {
		return Payload{}, ErrUnrecognized
	}
	return Payload{Kind: kind, ID: body.ID, Token: body.Token}, nil
}
