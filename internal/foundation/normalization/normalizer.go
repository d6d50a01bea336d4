// Package normalization maps loosely written configuration strings onto
// typed enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps cleaned strings to values of T.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewNormalizer creates a normalizer from spelling->value pairs. Keys are
// cleaned the same way input is, so aliases may be listed in any case.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	cleaned := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))
	for k, v := range values {
		key := Clean(k)
		cleaned[key] = v
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &Normalizer[T]{values: cleaned, defaultValue: defaultValue, keys: keys}
}

// Normalize returns the value for raw, or the default when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.Lookup(raw); ok {
		return v
	}
	return n.defaultValue
}

// Lookup returns the value for raw and whether raw is known.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[Clean(raw)]
	return v, ok
}

// NormalizeWithError is Lookup with an error listing the accepted spellings.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.keys)
}

// Keys returns the accepted spellings, sorted.
func (n *Normalizer[T]) Keys() []string {
	return append([]string(nil), n.keys...)
}

// Clean lower-cases and trims s.
func Clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
