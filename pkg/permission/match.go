package permission

import "strings"

// Matches reports whether the pattern selects key k.
//
//   - "*" matches every key
//   - "staff:*" matches any key on the staff resource
//   - an exact pattern matches only itself
func (p Pattern) Matches(k Key) bool {
	if k == "" || p == "" {
		return false
	}
	if p == All || string(p) == string(k) {
		return true
	}
	if prefix, ok := strings.CutSuffix(string(p), Wildcard); ok {
		return strings.HasPrefix(string(k), prefix)
	}
	return false
}

// Covers reports whether every key selected by other is also selected by p.
func (p Pattern) Covers(other Pattern) bool {
	switch {
	case p == All:
		return true
	case other == All:
		return false
	case p == other:
		return true
	case !other.IsWildcard():
		return p.Matches(Key(other))
	}
	return false
}

// MatchesAny reports whether at least one pattern selects k.
func MatchesAny(patterns []Pattern, k Key) bool {
	for _, p := range patterns {
		if p.Matches(k) {
			return true
		}
	}
	return false
}

// Expand returns the catalog keys selected by p, in catalog order.
func (p Pattern) Expand() []Key {
	switch {
	case p == All:
		return Catalog()
	case p.IsWildcard():
		return KeysFor(Resource(strings.TrimSuffix(string(p), Separator+Wildcard)))
	case Known(Key(p)):
		return []Key{Key(p)}
	}
	return nil
}
