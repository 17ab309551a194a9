// Package config loads the JSON configuration document describing a test run
// and resolves its values lazily, per key.
//
// Config values may contain {{ name }} placeholders. Ordinary placeholders
// resolve from the property map supplied at Load time; the reserved
// zz_testcase_class placeholder resolves per lookup from the test record
// context passed to Get. Every placeholder must resolve to exactly one value,
// and any failure to do so is a fatal ConfigError.
package config
