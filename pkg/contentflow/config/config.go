package config

import (
	"strings"
	"time"
)

// Config is a parsed config file. Keys may be dotted paths into nested
// sections ("llm.provider"). Accessors return the supplied default when a
// key is missing or holds the wrong type.
type Config struct {
	data map[string]any
}

// New wraps data. A nil map yields an empty Config.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// lookup walks a dotted path through nested maps.
func (c Config) lookup(path string) (any, bool) {
	cur := c.data
	parts := strings.Split(path, ".")
	for i, p := range parts {
		v, ok := cur[p]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if cur, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

// String returns the string at path.
func (c Config) String(path, def string) string {
	if v, ok := c.lookup(path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool at path.
func (c Config) Bool(path string, def bool) bool {
	if v, ok := c.lookup(path); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the integer at path. JSON numbers convert only when whole.
func (c Config) Int(path string, def int) int {
	v, _ := c.lookup(path)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	return def
}

// Float returns the number at path.
func (c Config) Float(path string, def float64) float64 {
	v, _ := c.lookup(path)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// Duration returns the duration at path. Strings use time.ParseDuration
// syntax; bare numbers are seconds.
func (c Config) Duration(path string, def time.Duration) time.Duration {
	v, _ := c.lookup(path)
	if s, ok := v.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
		return def
	}
	if _, ok := v.(float64); ok || isInt(v) {
		return time.Duration(c.Float(path, 0) * float64(time.Second))
	}
	return def
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int64:
		return true
	}
	return false
}

// Sub returns the section at path, or an empty Config.
func (c Config) Sub(path string) Config {
	if v, ok := c.lookup(path); ok {
		if m, ok := v.(map[string]any); ok {
			return New(m)
		}
	}
	return New(nil)
}

// Has reports whether path is present.
func (c Config) Has(path string) bool {
	_, ok := c.lookup(path)
	return ok
}

// Raw returns the underlying map. Callers must not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}
