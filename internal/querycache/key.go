package querycache

import (
	"encoding/json"
	"strings"
)

// Key addresses a cache entry: a leading resource namespace, a sub-scope
// ("list" or "detail"), and a canonicalized parameter payload. Two keys
// built from deep-equal parameters are identical strings and therefore
// resolve to the same entry.
type Key string

// NewKey builds a key from ordered segments and an optional params value.
// Params are canonicalized through JSON so that map iteration order and
// struct field order cannot produce distinct keys for equal values.
func NewKey(namespace, scope string, params any) Key {
	var b strings.Builder
	b.WriteString(namespace)
	b.WriteByte('/')
	b.WriteString(scope)
	if params != nil {
		b.WriteByte('/')
		b.WriteString(canonicalize(params))
	}
	return Key(b.String())
}

// Prefix returns the namespace/scope prefix shared by all keys of a scope,
// used for invalidation.
func Prefix(namespace, scope string) Key {
	return Key(namespace + "/" + scope)
}

// HasPrefix reports whether the key falls under the given prefix
func (k Key) HasPrefix(prefix Key) bool {
	if k == prefix {
		return true
	}
	return strings.HasPrefix(string(k), string(prefix)+"/")
}

func (k Key) String() string { return string(k) }

// canonicalize produces a stable JSON encoding of v. Round-tripping
// through any forces object keys into sorted order regardless of whether
// v was a struct or a map.
func canonicalize(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "!unencodable"
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
