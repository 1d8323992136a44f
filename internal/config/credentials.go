package config

import (
	"os"

	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/region"
)

// LookupFunc reads one variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Credentials resolves per-region session cookies.
type Credentials struct {
	lookup LookupFunc
}

// NewCredentials returns a resolver over lookup. A nil lookup reads the
// process environment.
func NewCredentials(lookup LookupFunc) *Credentials {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Credentials{lookup: lookup}
}

// Session returns the session cookie for r: the region variable if set and
// non-empty, else the generic CAS_SESSION. When both are absent the error
// names the region variable.
func (c *Credentials) Session(r region.Region) (string, error) {
	if v, ok := c.lookup(r.SessionVar); ok && v != "" {
		return v, nil
	}
	if v, ok := c.lookup(region.GenericSessionVar); ok && v != "" {
		return v, nil
	}
	return "", clerrors.MissingCredentials(r.Key, r.SessionVar)
}

// MapLookup adapts a map for tests and embedding callers.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
