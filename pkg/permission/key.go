package permission

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// Separator divides resource and action in canonical keys.
	Separator = ":"
	// LegacySeparator is accepted on input and rewritten to Separator.
	LegacySeparator = "."
	// Wildcard matches every action, or every key when used alone.
	Wildcard = "*"
)

// Key is a validated, canonical "resource:action" permission.
// The zero value is not a valid key and matches nothing.
type Key string

// Resource returns the resource segment of the key.
func (k Key) Resource() Resource {
	r, _, _ := strings.Cut(string(k), Separator)
	return Resource(r)
}

// Action returns the action segment of the key.
func (k Key) Action() string {
	_, a, _ := strings.Cut(string(k), Separator)
	return a
}

func (k Key) String() string { return string(k) }

// Pattern is an exact key, a resource wildcard or the global wildcard.
type Pattern string

// All is the global wildcard pattern.
const All Pattern = Wildcard

func (p Pattern) String() string { return string(p) }

// IsWildcard reports whether the pattern is "*" or "resource:*".
func (p Pattern) IsWildcard() bool {
	return p == All || strings.HasSuffix(string(p), Separator+Wildcard)
}

// normalize trims s and rewrites the legacy separator.
// Only the first separator is significant; actions never contain one.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, Separator) {
		return s
	}
	return strings.Replace(s, LegacySeparator, Separator, 1)
}

func split(s string) (string, string, error) {
	resource, action, ok := strings.Cut(s, Separator)
	if !ok || resource == "" || action == "" || strings.Contains(action, Separator) {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	return resource, action, nil
}

// ParseKey validates s and returns it as a canonical key.
//
//	permission.ParseKey("payrolls.write") // "payrolls:write", nil
//	permission.ParseKey("payrolls:*")     // "", ErrMalformedKey
func ParseKey(s string) (Key, error) {
	s = normalize(s)
	if s == "" {
		return "", ErrEmptyKey
	}
	resource, action, err := split(s)
	if err != nil {
		return "", err
	}
	if action == Wildcard {
		return "", fmt.Errorf("%w: %q is a pattern", ErrMalformedKey, s)
	}
	k := Key(resource + Separator + action)
	if !Known(k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}
	return k, nil
}

// MustParseKey is like ParseKey but panics on error.
// Intended for package-level tables.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// ParseKeys parses every string, failing on the first invalid one.
func ParseKeys(ss []string) ([]Key, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]Key, 0, len(ss))
	for _, s := range ss {
		k, err := ParseKey(s)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// ParsePattern validates s as a key, a resource wildcard or "*".
func ParsePattern(s string) (Pattern, error) {
	s = normalize(s)
	if s == "" {
		return "", ErrEmptyKey
	}
	if s == Wildcard {
		return All, nil
	}
	resource, action, err := split(s)
	if err != nil {
		return "", err
	}
	if action == Wildcard {
		if !knownResource(Resource(resource)) {
			return "", fmt.Errorf("%w: %q", ErrUnknownResource, resource)
		}
		return Pattern(resource + Separator + Wildcard), nil
	}
	k, err := ParseKey(s)
	if err != nil {
		return "", err
	}
	return Pattern(k), nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePatterns parses and normalizes a list of patterns.
// The result is deduplicated and sorted.
func ParsePatterns(ss []string) ([]Pattern, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]Pattern, 0, len(ss))
	for _, s := range ss {
		p, err := ParsePattern(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return NormalizePatterns(out), nil
}

// NormalizePatterns removes duplicates and sorts the patterns.
// Returns nil for empty input.
func NormalizePatterns(ps []Pattern) []Pattern {
	if len(ps) == 0 {
		return nil
	}
	out := slices.Clone(ps)
	slices.Sort(out)
	return slices.Compact(out)
}

// Strings converts patterns to plain strings for serialization.
func Strings[T ~string](items []T) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = string(v)
	}
	return out
}
