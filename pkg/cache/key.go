package cache

import (
	"sort"
	"strings"
)

// Key identifies a cached payload: a namespace for the resource kind,
// the author login, and the query parameters that shape the payload.
type Key struct {
	// Namespace distinguishes resource kinds (e.g. "poems", "filters").
	Namespace string

	// Identifier is the author login. It is sanitized during rendering,
	// never rejected.
	Identifier string

	// Params are the named query parameters that affect the payload.
	// A nil value means the parameter was specified without a value; it
	// renders as "null" so that "no page given" caches under one key no
	// matter how the client spelled it.
	Params map[string]*string
}

// String renders the deterministic key string.
// Format: <namespace>_<identifier>[_<param>_<value>...]
//
// Params are rendered in sorted name order, so two requests with the
// same parameter values map to the same key regardless of the order
// the parameters appeared in the request.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Namespace)
	b.WriteByte('_')
	b.WriteString(sanitizeIdentifier(k.Identifier))

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			b.WriteByte('_')
			b.WriteString(name)
			b.WriteByte('_')
			if v := k.Params[name]; v != nil {
				b.WriteString(*v)
			} else {
				b.WriteString("null")
			}
		}
	}

	return b.String()
}

// sanitizeIdentifier keeps alphanumerics, underscore and hyphen; every
// other rune becomes an underscore. Keys double as file names, so the
// identifier must never smuggle in path separators.
func sanitizeIdentifier(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
