// Package env abstracts read access to the process environment so that
// configuration code can run against injected key/value sources in tests.
package env

import "os"

// Source yields environment values. Lookup reports whether key is set at
// all; a set-but-empty variable returns ("", true), so absence is never
// conflated with emptiness. Implementations never fail.
type Source interface {
	Lookup(key string) (string, bool)
}

// osSource reads the live process environment on every call. No caching,
// so values changed after process start are visible to later lookups.
type osSource struct{}

func (osSource) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// OS returns a Source backed by the process environment.
func OS() Source { return osSource{} }

// Static is a fixed in-memory Source for tests and wiring experiments.
type Static map[string]string

func (s Static) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}
