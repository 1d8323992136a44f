package redact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/logging"
)

// ConfigKeys are the recognized top-level keys of a filter config file, in
// priority order. The last two are accepted for older config files.
var ConfigKeys = []string{"msg_filters", "_msg_filters", "patterns"}

// DefaultConfigFile is the file name looked up in the user config directory.
const DefaultConfigFile = "message_filters.json"

// LoadPatterns reads the pattern list from a JSON config file. It returns
// ok=false, with no error, when the file does not exist or has none of
// ConfigKeys; callers then use DefaultPatterns. A recognized key holding
// anything but an array of strings is a FilterConfig error. Keys match
// case-insensitively.
func LoadPatterns(path string) (patterns []string, ok bool, err error) {
	if path == "" {
		return nil, false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("filter config %s not found", path)
			return nil, false, nil
		}
		return nil, false, clerrors.FilterConfig("cannot read "+path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, false, clerrors.FilterConfig("cannot parse "+path, err)
	}

	// AllKeys also lists keys whose value is null, which IsSet does not.
	present := make(map[string]bool)
	for _, k := range v.AllKeys() {
		present[k] = true
	}
	for _, key := range ConfigKeys {
		if !present[key] && !v.IsSet(key) {
			continue
		}
		patterns, err := stringList(v.Get(key))
		if err != nil {
			return nil, false, clerrors.FilterConfig(fmt.Sprintf("%s: %q", path, key), err)
		}
		return patterns, true, nil
	}

	logging.Warn("filter config %s has none of %v; using default patterns", path, ConfigKeys)
	return nil, false, nil
}

// Load builds a pipeline from the config file at path, falling back to
// DefaultPatterns when the file is absent or has no recognized key.
func Load(path string) (*Pipeline, error) {
	patterns, ok, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		logging.Info("using default message filters")
		patterns = DefaultPatterns()
	} else {
		logging.Info("loaded message filters from %s", path)
	}

	p, err := New(patterns)
	if err != nil {
		return nil, err
	}
	logging.Info("%d message filters active", p.Len())
	return p, nil
}

// stringList accepts only a JSON array of strings. Scalars, nulls and
// non-string elements are rejected rather than coerced.
func stringList(raw interface{}) ([]string, error) {
	switch list := raw.(type) {
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, len(list))
		for i, elem := range list {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want string", i, elem)
			}
			out[i] = s
		}
		return out, nil
	case nil:
		return nil, errors.New("value is null, want an array of strings")
	default:
		return nil, fmt.Errorf("value is %T, want an array of strings", raw)
	}
}

// DefaultConfigPath returns <dir>/message_filters.json, or "" when dir is empty.
func DefaultConfigPath(dir string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, DefaultConfigFile)
}
