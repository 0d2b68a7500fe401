package xloffer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrProfileNotFound is returned by a ProfileSource that has no profile for an id.
var ErrProfileNotFound = errors.New("profile not found")

// Price is one entry of a price profile: a price code (as it appears in the
// offer) and the price that replaces it.
type Price struct {
	Code  string
	Value string
}

// PriceList keeps prices in declaration order. It marshals to a JSON object
// whose key order survives a round trip.
type PriceList []Price

// PriceProfile is a named price table applied to the LICENCIAS block.
type PriceProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prices    PriceList `json:"prices"`
	UpdatedAt time.Time `json:"updatedAtUtc"`
}

// ProfileSource looks up price profiles by id.
type ProfileSource interface {
	Get(id string) (*PriceProfile, error)
}

// ResolveProfile fetches a profile when id is set. An empty id yields (nil, nil),
// which disables price substitution.
func ResolveProfile(src ProfileSource, id string) (*PriceProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	if src == nil {
		return nil, fmt.Errorf("profile %q: %w", id, ErrProfileNotFound)
	}
	return src.Get(id)
}

// Set appends a price, or replaces the value of an existing identical code.
func (l *PriceList) Set(code, value string) {
	for i := range *l {
		if (*l)[i].Code == code {
			(*l)[i].Value = value
			return
		}
	}
	*l = append(*l, Price{Code: code, Value: value})
}

// Normalized builds the lookup table keyed by NormalizePriceKey. When two codes
// normalize to the same key the later one wins.
func (l PriceList) Normalized() map[string]string {
	m := make(map[string]string, len(l))
	for _, p := range l {
		m[NormalizePriceKey(p.Code)] = p.Value
	}
	return m
}

// MarshalJSON writes the list as a JSON object in declaration order.
func (l PriceList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Code)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. Numeric values are
// kept as their literal text; null becomes an empty price.
func (l *PriceList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("prices: expected object, got %v", tok)
	}

	list := PriceList{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		code, ok := tok.(string)
		if !ok {
			return fmt.Errorf("prices: expected string key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("prices[%q]: %w", code, err)
		}
		value, err := priceValue(raw)
		if err != nil {
			return fmt.Errorf("prices[%q]: %w", code, err)
		}
		list = append(list, Price{Code: code, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = list
	return nil
}

func priceValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return "", nil
	case trimmed[0] == '"':
		var s string
		err := json.Unmarshal(trimmed, &s)
		return s, err
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		return string(trimmed), nil
	}
	return "", fmt.Errorf("unsupported price value %s", trimmed)
}
