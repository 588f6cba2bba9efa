package query

import (
	"fmt"
	"sort"
	"strings"
)

// OthersToken selects every skill outside the alias table
const OthersToken = "others"

// DefaultAliases maps short skill tokens to canonical skill names
var DefaultAliases = map[string]string{
	"js":    "JavaScript",
	"node":  "Node Js",
	"ts":    "TypeScript",
	"react": "React",
}

// AliasTable resolves short skill tokens to canonical names.
// Keys are matched case-insensitively.
type AliasTable struct {
	aliases   map[string]string
	canonical []string
}

// NewAliasTable validates and builds an alias table. Canonical values must be
// unique and "others" may not be used as a key.
func NewAliasTable(aliases map[string]string) (*AliasTable, error) {
	t := &AliasTable{aliases: make(map[string]string, len(aliases))}
	seen := make(map[string]string, len(aliases))

	for key, value := range aliases {
		k := strings.ToLower(strings.TrimSpace(key))
		v := strings.TrimSpace(value)

		if k == "" || v == "" {
			return nil, fmt.Errorf("alias %q: key and canonical name are required", key)
		}
		if k == OthersToken {
			return nil, fmt.Errorf("alias %q is reserved", OthersToken)
		}
		if _, dup := t.aliases[k]; dup {
			return nil, fmt.Errorf("alias %q defined more than once", k)
		}
		if prev, dup := seen[v]; dup {
			return nil, fmt.Errorf("canonical skill %q used by both %q and %q", v, prev, k)
		}

		seen[v] = k
		t.aliases[k] = v
		t.canonical = append(t.canonical, v)
	}

	sort.Strings(t.canonical)
	return t, nil
}

// MustDefaultAliasTable returns the table built from DefaultAliases
func MustDefaultAliasTable() *AliasTable {
	t, err := NewAliasTable(DefaultAliases)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the canonical name for token, or the trimmed token itself
// when it is not an alias
func (t *AliasTable) Resolve(token string) string {
	if v, ok := t.Lookup(token); ok {
		return v
	}
	return strings.TrimSpace(token)
}

// Lookup returns the canonical name for token and whether token is an alias
func (t *AliasTable) Lookup(token string) (string, bool) {
	v, ok := t.aliases[strings.ToLower(strings.TrimSpace(token))]
	return v, ok
}

// Canonical returns every canonical skill name, sorted
func (t *AliasTable) Canonical() []string {
	return append([]string(nil), t.canonical...)
}
