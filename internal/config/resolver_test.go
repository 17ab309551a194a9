package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.json")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

const configWithInterpolation = `
{
    "test_cycle": "pike",
    "project_id": 12345,
    "module_hierarchy": ["one", "two", "three"],
    "path_to_test_exec_dir": "{{ FOO }}"
}
`

const configWithClassnameVariable = `
{
    "test_cycle": "pike",
    "project_id": 12345,
    "module_hierarchy": ["one", "two", "{{ zz_testcase_class }}"],
    "path_to_test_exec_dir": "foo/bar/tests"
}
`

type fakeRecord struct {
	classname string
}

func (f fakeRecord) Classname() string { return f.classname }

func TestGet_PullValueFromProperties(t *testing.T) {
	path := writeTempConfig(t, configWithInterpolation)

	properties := map[string]string{"FOO": "/Hello/is/it/me/youre/looking/for"}
	resolver, err := Load(path, properties)
	require.NoError(t, err)

	value, err := resolver.GetString("path_to_test_exec_dir", nil)
	require.NoError(t, err)
	assert.Equal(t, properties["FOO"], value)
}

func TestGet_MissingPropertyNamedInError(t *testing.T) {
	path := writeTempConfig(t, configWithInterpolation)

	resolver, err := Load(path, map[string]string{})
	require.NoError(t, err)

	_, err = resolver.Get("path_to_test_exec_dir", nil)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "path_to_test_exec_dir")
	assert.Contains(t, err.Error(), "FOO")
}

func TestGet_MissingKey(t *testing.T) {
	path := writeTempConfig(t, configWithInterpolation)

	resolver, err := Load(path, nil)
	require.NoError(t, err)

	_, err = resolver.Get("does_not_exist", nil)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "the config 'does_not_exist' was not found in the config file")
}

func TestLoad_NotJSON(t *testing.T) {
	path := writeTempConfig(t, "this is not json {")

	_, err := Load(path, map[string]string{})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "is not valid JSON")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), nil)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestGet_ClassnameVariable(t *testing.T) {
	path := writeTempConfig(t, configWithClassnameVariable)

	resolver, err := Load(path, map[string]string{})
	require.NoError(t, err)

	record := fakeRecord{classname: "this.is.the.classname"}
	hierarchy, err := resolver.GetStringSlice("module_hierarchy", record)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "this.is.the.classname"}, hierarchy)
}

func TestGet_ClassnameVariableWithoutContext(t *testing.T) {
	path := writeTempConfig(t, configWithClassnameVariable)

	resolver, err := Load(path, map[string]string{})
	require.NoError(t, err)

	_, err = resolver.Get("module_hierarchy", nil)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "zz_testcase_class")
}

func TestGet_RoundTripWithoutPlaceholders(t *testing.T) {
	path := writeTempConfig(t, configWithClassnameVariable)

	resolver, err := Load(path, nil)
	require.NoError(t, err)

	value, err := resolver.GetString("test_cycle", nil)
	require.NoError(t, err)
	assert.Equal(t, "pike", value)

	dir, err := resolver.GetString("path_to_test_exec_dir", nil)
	require.NoError(t, err)
	assert.Equal(t, "foo/bar/tests", dir)
}

func TestGet_Idempotent(t *testing.T) {
	path := writeTempConfig(t, configWithClassnameVariable)

	resolver, err := Load(path, nil)
	require.NoError(t, err)

	record := fakeRecord{classname: "a.b.c"}
	first, err := resolver.GetStringSlice("module_hierarchy", record)
	require.NoError(t, err)
	second, err := resolver.GetStringSlice("module_hierarchy", record)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Differing contexts must not bleed into each other
	other, err := resolver.GetStringSlice("module_hierarchy", fakeRecord{classname: "x.y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "x.y"}, other)
	assert.Equal(t, []string{"one", "two", "a.b.c"}, first)
}

func TestGetInt(t *testing.T) {
	path := writeTempConfig(t, configWithInterpolation)

	resolver, err := Load(path, nil)
	require.NoError(t, err)

	id, err := resolver.GetInt("project_id")
	require.NoError(t, err)
	assert.Equal(t, 12345, id)

	_, err = resolver.GetInt("test_cycle")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestGetStringSlice_NonSequence(t *testing.T) {
	path := writeTempConfig(t, configWithInterpolation)

	resolver, err := Load(path, nil)
	require.NoError(t, err)

	_, err = resolver.GetStringSlice("test_cycle", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a sequence")
}

func TestKeys(t *testing.T) {
	path := writeTempConfig(t, configWithInterpolation)

	resolver, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"module_hierarchy", "path_to_test_exec_dir", "project_id", "test_cycle"}, resolver.Keys())
}

func TestReferencesClassname(t *testing.T) {
	path := writeTempConfig(t, configWithClassnameVariable)

	resolver, err := Load(path, nil)
	require.NoError(t, err)

	assert.True(t, resolver.ReferencesClassname("module_hierarchy"))
	assert.False(t, resolver.ReferencesClassname("path_to_test_exec_dir"))
	assert.False(t, resolver.ReferencesClassname("absent"))
}
