package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Engine handles placeholder interpolation for config values.
type Engine struct {
	// Pattern to match template variables like {{ variableName }}
	pattern *regexp.Regexp
}

// New creates a new template engine.
func New() *Engine {
	return &Engine{
		pattern: regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`),
	}
}

// ResolveFunc resolves a single placeholder to its substitution value.
// The second return reports whether a value exists for the placeholder.
type ResolveFunc func(p Placeholder) (string, bool)

// Resolve replaces all placeholders in a value using the given resolver.
// Strings are substituted in place, sequences element-wise; other types are
// returned as-is. The input is never mutated.
func (e *Engine) Resolve(value interface{}, resolve ResolveFunc) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return e.resolveString(v, resolve)
	case []interface{}:
		return e.resolveSlice(v, resolve)
	case []string:
		result := make([]string, len(v))
		for i, s := range v {
			replaced, err := e.resolveString(s, resolve)
			if err != nil {
				return nil, fmt.Errorf("error at index %d: %w", i, err)
			}
			result[i] = replaced
		}
		return result, nil
	default:
		// Non-templatable types pass through unchanged
		return value, nil
	}
}

func (e *Engine) resolveString(s string, resolve ResolveFunc) (string, error) {
	var missing []string

	result := e.pattern.ReplaceAllStringFunc(s, func(match string) string {
		name := e.pattern.FindStringSubmatch(match)[1]
		replacement, ok := resolve(classify(name))
		if !ok {
			missing = append(missing, name)
			return match
		}
		return replacement
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}

	return result, nil
}

func (e *Engine) resolveSlice(s []interface{}, resolve ResolveFunc) ([]interface{}, error) {
	result := make([]interface{}, len(s))

	for i, value := range s {
		replaced, err := e.Resolve(value, resolve)
		if err != nil {
			return nil, fmt.Errorf("error at index %d: %w", i, err)
		}
		result[i] = replaced
	}

	return result, nil
}

// Extract returns all placeholders referenced by a value, deduplicated,
// in no particular order.
func (e *Engine) Extract(value interface{}) []Placeholder {
	seen := make(map[string]bool)
	var result []Placeholder
	e.extractRecursive(value, seen, &result)
	return result
}

func (e *Engine) extractRecursive(value interface{}, seen map[string]bool, result *[]Placeholder) {
	switch v := value.(type) {
	case string:
		for _, match := range e.pattern.FindAllStringSubmatch(v, -1) {
			name := match[1]
			if !seen[name] {
				seen[name] = true
				*result = append(*result, classify(name))
			}
		}
	case []interface{}:
		for _, val := range v {
			e.extractRecursive(val, seen, result)
		}
	case []string:
		for _, val := range v {
			e.extractRecursive(val, seen, result)
		}
	case map[string]interface{}:
		for _, val := range v {
			e.extractRecursive(val, seen, result)
		}
	}
}

// References reports whether a value contains the given placeholder kind.
func (e *Engine) References(value interface{}, kind PlaceholderKind) bool {
	for _, p := range e.Extract(value) {
		if p.Kind == kind {
			return true
		}
	}
	return false
}
