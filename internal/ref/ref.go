// Package ref resolves the different shapes an entity reference can arrive in
// to one canonical string key.
//
// A reference is either a bare identifier ("a1b2", 42, a uuid.UUID), an object
// wrapping the identifier ({"$oid": "a1b2"}, {"_id": "a1b2"}, {"id": "a1b2"}),
// or a populated document whose id field is itself a wrapped identifier
// ({"_id": {"$oid": "a1b2"}, "name": "Downtown"}). Only that one level of
// nesting is followed.
package ref

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmpty       = errors.New("empty identifier")
	ErrUnsupported = errors.New("unsupported identifier shape")
	ErrTooDeep     = errors.New("identifier nested too deeply")
)

// idKeys are checked in order on object-shaped references.
var idKeys = []string{"$oid", "_id", "id"}

// maxNesting is how many wrapped-reference objects may sit between the outer
// value and the identifier.
const maxNesting = 1

// Normalize returns the canonical identifier for v. Normalizing an already
// canonical identifier returns it unchanged.
func Normalize(v any) (string, error) {
	return normalize(v, 0)
}

func normalize(v any, depth int) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", ErrEmpty
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return "", ErrEmpty
		}
		return s, nil
	case ID:
		return normalize(string(x), depth)
	case uuid.UUID:
		if x == uuid.Nil {
			return "", ErrEmpty
		}
		return x.String(), nil
	case json.Number:
		return normalize(x.String(), depth)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case json.RawMessage:
		return normalizeJSON(x, depth)
	case map[string]any:
		for _, k := range idKeys {
			inner, ok := x[k]
			if !ok {
				continue
			}
			if _, isObj := inner.(map[string]any); isObj {
				if depth >= maxNesting {
					return "", ErrTooDeep
				}
				return normalize(inner, depth+1)
			}
			return normalize(inner, depth)
		}
		return "", fmt.Errorf("%w: object without id field", ErrUnsupported)
	case fmt.Stringer:
		return normalize(x.String(), depth)
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func normalizeJSON(raw []byte, depth int) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return normalize(v, depth)
}

// ID is a canonical identifier that accepts any supported reference shape when
// decoded from JSON, and always encodes as a plain string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*id = ""
		return nil
	}
	s, err := normalizeJSON(b, 0)
	if err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// UUID parses the identifier as a UUID.
func (id ID) UUID() (uuid.UUID, error) {
	return uuid.Parse(string(id))
}

// SplitCartItemID splits a composite cart item id of the form
// "<menuId>-<variation>" into the menu id and the variation name. Menu ids
// that are UUIDs keep their own dashes. An id without a variation suffix is
// returned whole with an empty variation.
func SplitCartItemID(cartItemID string) (menuID, variation string) {
	s := strings.TrimSpace(cartItemID)
	if len(s) >= 36 {
		if _, err := uuid.Parse(s[:36]); err == nil {
			return s[:36], strings.TrimPrefix(s[36:], "-")
		}
	}
	menuID, variation, _ = strings.Cut(s, "-")
	return menuID, variation
}
