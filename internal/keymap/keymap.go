// Package keymap maps node kinds to the external record field that serves
// as their key value.
//
// The hierarchy engine stores bare (kind, id) refs; when a caller needs the
// external record behind a ref, the key map tells the resolver which field
// of that record carries the id. Kinds without an explicit mapping default
// to "id", unless strict mode rejects them.
package keymap

import "fmt"

// DefaultKeyField is the field assumed for unmapped kinds in lax mode.
const DefaultKeyField = "id"

// UnmappedKindError reports a kind with no mapping under strict mode.
type UnmappedKindError struct {
	Kind string
}

func (e *UnmappedKindError) Error() string {
	return fmt.Sprintf("keymap: no key field mapped for kind %q", e.Kind)
}

// KeyMap resolves node kinds to key field names.
type KeyMap struct {
	keys   map[string]string
	strict bool
}

// New builds a KeyMap from explicit kind → field mappings. In strict mode,
// KeyFor rejects kinds absent from the mapping instead of defaulting.
func New(keys map[string]string, strict bool) *KeyMap {
	copied := make(map[string]string, len(keys))
	for kind, field := range keys {
		copied[kind] = field
	}
	return &KeyMap{keys: copied, strict: strict}
}

// Lax returns a permissive key map: every kind resolves to DefaultKeyField.
func Lax() *KeyMap {
	return &KeyMap{keys: map[string]string{}}
}

// Strict reports whether the map rejects unmapped kinds.
func (m *KeyMap) Strict() bool {
	return m.strict
}

// KeyFor returns the key field for a kind. Unmapped kinds yield
// DefaultKeyField, or an UnmappedKindError in strict mode.
func (m *KeyMap) KeyFor(kind string) (string, error) {
	if field, ok := m.keys[kind]; ok {
		return field, nil
	}
	if m.strict {
		return "", &UnmappedKindError{Kind: kind}
	}
	return DefaultKeyField, nil
}
