package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func propsResolver(props map[string]string) ResolveFunc {
	return func(p Placeholder) (string, bool) {
		if p.Kind != KindStatic {
			return "", false
		}
		v, ok := props[p.Name]
		return v, ok
	}
}

func TestResolve_String(t *testing.T) {
	e := New()

	result, err := e.Resolve("{{ FOO }}", propsResolver(map[string]string{"FOO": "/a/b/c"}))
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c", result)
}

func TestResolve_StringWithSurroundingText(t *testing.T) {
	e := New()

	result, err := e.Resolve("prefix/{{ FOO }}/suffix", propsResolver(map[string]string{"FOO": "mid"}))
	require.NoError(t, err)
	assert.Equal(t, "prefix/mid/suffix", result)
}

func TestResolve_WhitespaceVariants(t *testing.T) {
	e := New()
	props := propsResolver(map[string]string{"FOO": "x"})

	for _, tmpl := range []string{"{{FOO}}", "{{ FOO }}", "{{  FOO  }}"} {
		result, err := e.Resolve(tmpl, props)
		require.NoError(t, err, "template %q", tmpl)
		assert.Equal(t, "x", result, "template %q", tmpl)
	}
}

func TestResolve_MissingVariable(t *testing.T) {
	e := New()

	_, err := e.Resolve("{{ MISSING }}", propsResolver(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")
}

func TestResolve_SliceElementWise(t *testing.T) {
	e := New()

	value := []interface{}{"one", "two", "{{ zz_testcase_class }}"}
	result, err := e.Resolve(value, func(p Placeholder) (string, bool) {
		if p.Kind == KindDynamicClassname {
			return "this.is.the.classname", true
		}
		return "", false
	})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"one", "two", "this.is.the.classname"}, result)
}

func TestResolve_SliceErrorNamesIndex(t *testing.T) {
	e := New()

	_, err := e.Resolve([]interface{}{"ok", "{{ NOPE }}"}, propsResolver(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
	assert.Contains(t, err.Error(), "NOPE")
}

func TestResolve_NonTemplatablePassThrough(t *testing.T) {
	e := New()

	result, err := e.Resolve(float64(12345), propsResolver(nil))
	require.NoError(t, err)
	assert.Equal(t, float64(12345), result)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	e := New()

	value := []interface{}{"{{ FOO }}", "keep"}
	_, err := e.Resolve(value, propsResolver(map[string]string{"FOO": "bar"}))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"{{ FOO }}", "keep"}, value)
}

func TestExtract_ClassifiesPlaceholders(t *testing.T) {
	e := New()

	placeholders := e.Extract([]interface{}{"{{ FOO }}", "{{ zz_testcase_class }}", "literal"})
	require.Len(t, placeholders, 2)

	byName := make(map[string]Placeholder)
	for _, p := range placeholders {
		byName[p.Name] = p
	}
	assert.Equal(t, KindStatic, byName["FOO"].Kind)
	assert.Equal(t, KindDynamicClassname, byName[DynamicClassnameVar].Kind)
}

func TestExtract_Deduplicates(t *testing.T) {
	e := New()

	placeholders := e.Extract("{{ FOO }}/{{ FOO }}")
	assert.Len(t, placeholders, 1)
}

func TestReferences(t *testing.T) {
	e := New()

	assert.True(t, e.References("{{ zz_testcase_class }}", KindDynamicClassname))
	assert.False(t, e.References("{{ FOO }}", KindDynamicClassname))
	assert.True(t, e.References(map[string]interface{}{"k": []interface{}{"{{ FOO }}"}}, KindStatic))
}
