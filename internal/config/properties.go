package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MergeProperties merges multiple property maps into a single map.
// Later maps override values from earlier maps.
func MergeProperties(maps ...map[string]string) map[string]string {
	result := make(map[string]string)

	for _, m := range maps {
		for key, value := range m {
			result[key] = value
		}
	}

	return result
}

// LoadProperties reads a flat YAML mapping of placeholder name to value.
// Nested values are rejected; the property source contract is a flat map.
func LoadProperties(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("could not read properties file %s", path), Err: err}
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("properties file %s is not valid YAML", path), Err: err}
	}

	result := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			result[key] = v
		case int, int64, float64, bool:
			result[key] = fmt.Sprintf("%v", v)
		default:
			return nil, &ConfigError{
				Message: fmt.Sprintf("property '%s' in %s is not a flat scalar value", key, path),
			}
		}
	}

	return result, nil
}
