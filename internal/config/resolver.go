package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"trestle/internal/template"
	"trestle/pkg/logging"
)

// RecordContext exposes the test record attributes available to dynamic
// placeholder resolution. Each concurrent caller supplies its own context;
// the resolver holds no per-record state.
type RecordContext interface {
	Classname() string
}

// Resolver loads a JSON config document once and answers typed, lazily
// resolved lookups against it. The parsed document and the property map are
// immutable after construction, so a single Resolver is safe for concurrent
// use.
type Resolver struct {
	doc        map[string]interface{}
	properties map[string]string
	engine     *template.Engine
}

// Load constructs a Resolver from a JSON config file and a property map.
// The file is read and parsed exactly once; placeholders are left untouched
// until Get is called.
func Load(path string, properties map[string]string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("could not read config file %s", path), Err: err}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("config file %s is not valid JSON", path), Err: err}
	}

	if properties == nil {
		properties = map[string]string{}
	}

	logging.Debug("Config", "Loaded configuration from %s (%d keys)", path, len(doc))

	return &Resolver{
		doc:        doc,
		properties: properties,
		engine:     template.New(),
	}, nil
}

// Get retrieves the value at key with all placeholders substituted. Static
// placeholders resolve from the property map; the reserved dynamic variable
// resolves from ctx's classname. Scalars stay scalars and sequences are
// substituted element-wise. The loaded document is never mutated, so calls
// with identical arguments always return equal results.
func (r *Resolver) Get(key string, ctx RecordContext) (interface{}, error) {
	raw, ok := r.doc[key]
	if !ok {
		return nil, notFoundError(key)
	}

	if ctx == nil && r.engine.References(raw, template.KindDynamicClassname) {
		return nil, &ConfigError{
			Key: key,
			Message: fmt.Sprintf("the config '%s' references '%s' but no test record context was supplied",
				key, template.DynamicClassnameVar),
		}
	}

	resolved, err := r.engine.Resolve(raw, func(p template.Placeholder) (string, bool) {
		if p.Kind == template.KindDynamicClassname {
			return ctx.Classname(), true
		}
		value, ok := r.properties[p.Name]
		return value, ok
	})
	if err != nil {
		return nil, &ConfigError{
			Key:     key,
			Message: fmt.Sprintf("the config '%s' could not be resolved", key),
			Err:     err,
		}
	}

	return resolved, nil
}

// GetString retrieves a scalar string config value.
func (r *Resolver) GetString(key string, ctx RecordContext) (string, error) {
	value, err := r.Get(key, ctx)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", &ConfigError{Key: key, Message: fmt.Sprintf("the config '%s' is not a string", key)}
	}
	return s, nil
}

// GetInt retrieves an integer config value. JSON numbers arrive as float64;
// non-integral values are rejected.
func (r *Resolver) GetInt(key string) (int, error) {
	value, err := r.Get(key, nil)
	if err != nil {
		return 0, err
	}
	f, ok := value.(float64)
	if !ok || f != float64(int(f)) {
		return 0, &ConfigError{Key: key, Message: fmt.Sprintf("the config '%s' is not an integer", key)}
	}
	return int(f), nil
}

// GetStringSlice retrieves an ordered sequence of strings.
func (r *Resolver) GetStringSlice(key string, ctx RecordContext) ([]string, error) {
	value, err := r.Get(key, ctx)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []interface{}:
		result := make([]string, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, &ConfigError{
					Key:     key,
					Message: fmt.Sprintf("the config '%s' contains a non-string element at index %d", key, i),
				}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &ConfigError{Key: key, Message: fmt.Sprintf("the config '%s' is not a sequence", key)}
	}
}

// Keys returns the config document's top-level keys, sorted.
func (r *Resolver) Keys() []string {
	keys := make([]string, 0, len(r.doc))
	for key := range r.doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ReferencesClassname reports whether the value at key uses the reserved
// dynamic variable. Lookups on such keys need a per-record context.
func (r *Resolver) ReferencesClassname(key string) bool {
	raw, ok := r.doc[key]
	if !ok {
		return false
	}
	return r.engine.References(raw, template.KindDynamicClassname)
}
