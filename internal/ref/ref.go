// Package ref defines the node addressing scheme used throughout lineage.
//
// A node is identified by an opaque (kind, id) pair. The kind discriminates
// the owning entity category; the id is a scalar key value compared as an
// opaque value. The engine never resolves a ref back to an external record
// itself - that is delegated to a resolver collaborator.
package ref

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Scalar is a sealed interface over the key value types a node id may carry.
// Only IntID and StringID implement it. No floats - float keys are forbidden
// because their text encoding is not stable across platforms.
type Scalar interface {
	scalar() // Sealed - only these types implement it

	// Key returns the canonical storage encoding of the scalar. The
	// encoding is injective across scalar types: IntID(42) and
	// StringID("42") never produce the same key.
	Key() string

	// String returns the bare value for display and CLI output.
	String() string
}

// IntID is an integer key value. Always int64.
type IntID int64

func (IntID) scalar() {}

// Key encodes integers as plain decimal text.
func (v IntID) Key() string { return strconv.FormatInt(int64(v), 10) }

func (v IntID) String() string { return strconv.FormatInt(int64(v), 10) }

// StringID is a string key value (name, UUID, ULID).
type StringID string

func (StringID) scalar() {}

// Key encodes strings NFC-normalized and quoted. The quoting keeps the
// encoding disjoint from IntID keys, and NFC normalization at this boundary
// means two byte-different spellings of the same key value collapse to one
// closure row.
func (v StringID) Key() string {
	return strconv.Quote(norm.NFC.String(string(v)))
}

func (v StringID) String() string { return string(v) }

// NodeRef identifies a node as a (kind, id) pair. Two refs are equal iff
// both fields match.
type NodeRef struct {
	Kind string
	ID   Scalar
}

// New constructs a NodeRef.
func New(kind string, id Scalar) NodeRef {
	return NodeRef{Kind: kind, ID: id}
}

// Int is shorthand for a ref with an integer id.
func Int(kind string, id int64) NodeRef {
	return NodeRef{Kind: kind, ID: IntID(id)}
}

// Str is shorthand for a ref with a string id.
func Str(kind string, id string) NodeRef {
	return NodeRef{Kind: kind, ID: StringID(id)}
}

// Equal reports whether two refs address the same node.
func (r NodeRef) Equal(other NodeRef) bool {
	if r.Kind != other.Kind {
		return false
	}
	if r.ID == nil || other.ID == nil {
		return r.ID == other.ID
	}
	return r.ID.Key() == other.ID.Key()
}

// IsZero reports whether the ref is the zero value.
func (r NodeRef) IsZero() bool {
	return r.Kind == "" && r.ID == nil
}

// Key returns the canonical map/storage key of the ref: the kind joined with
// the scalar key encoding. Used for closure row columns and snapshot maps.
func (r NodeRef) Key() string {
	if r.ID == nil {
		return r.Kind + "/"
	}
	return r.Kind + "/" + r.ID.Key()
}

// String renders the ref for logs and CLI output as "kind:id".
func (r NodeRef) String() string {
	if r.ID == nil {
		return r.Kind + ":"
	}
	return r.Kind + ":" + r.ID.String()
}

// MarshalJSON renders the ref as {"kind": ..., "id": ...} with the id kept
// as a JSON number for IntID and a JSON string for StringID.
func (r NodeRef) MarshalJSON() ([]byte, error) {
	var id any
	switch v := r.ID.(type) {
	case IntID:
		id = int64(v)
	case StringID:
		id = string(v)
	case nil:
		id = nil
	}
	return json.Marshal(struct {
		Kind string `json:"kind"`
		ID   any    `json:"id"`
	}{Kind: r.Kind, ID: id})
}

// UnmarshalJSON accepts the MarshalJSON form. Integral JSON numbers decode
// to IntID, strings to StringID.
func (r *NodeRef) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind string          `json:"kind"`
		ID   json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var id Scalar
	switch {
	case len(raw.ID) == 0 || string(raw.ID) == "null":
		id = nil
	case raw.ID[0] == '"':
		var s string
		if err := json.Unmarshal(raw.ID, &s); err != nil {
			return err
		}
		id = StringID(s)
	default:
		var n int64
		if err := json.Unmarshal(raw.ID, &n); err != nil {
			return fmt.Errorf("node ref id %s: %w", raw.ID, err)
		}
		id = IntID(n)
	}

	*r = NodeRef{Kind: raw.Kind, ID: id}
	return nil
}

// DecodeScalar reverses Scalar.Key. Quoted keys decode to StringID, decimal
// keys to IntID.
func DecodeScalar(key string) (Scalar, error) {
	if key == "" {
		return nil, fmt.Errorf("decode scalar: empty key")
	}
	if key[0] == '"' {
		s, err := strconv.Unquote(key)
		if err != nil {
			return nil, fmt.Errorf("decode scalar %q: %w", key, err)
		}
		return StringID(s), nil
	}
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode scalar %q: %w", key, err)
	}
	return IntID(n), nil
}

// Parse parses the CLI form "kind:id". Ids consisting entirely of digits
// (with an optional leading minus) parse as IntID, everything else as
// StringID.
func Parse(s string) (NodeRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || kind == "" || id == "" {
		return NodeRef{}, fmt.Errorf("parse node ref %q: want kind:id", s)
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return NodeRef{Kind: kind, ID: IntID(n)}, nil
	}
	return NodeRef{Kind: kind, ID: StringID(id)}, nil
}
