package junit

import (
	"encoding/xml"
	"fmt"
	"os"

	"trestle/pkg/logging"
)

// Property is a <property> element carried by a suite or a test case.
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Result is a <failure>, <error> or <skipped> child of a test case.
type Result struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

// TestCase is a single <testcase> element.
type TestCase struct {
	Name       string     `xml:"name,attr"`
	Classname  string     `xml:"classname,attr"`
	Time       float64    `xml:"time,attr"`
	Properties []Property `xml:"properties>property"`
	Failures   []Result   `xml:"failure"`
	Errors     []Result   `xml:"error"`
	Skipped    *Result    `xml:"skipped"`
}

// TestSuite is a <testsuite> element with its cases and suite-level
// properties.
type TestSuite struct {
	XMLName    xml.Name   `xml:"testsuite"`
	Name       string     `xml:"name,attr"`
	Tests      int        `xml:"tests,attr"`
	Failures   int        `xml:"failures,attr"`
	Errors     int        `xml:"errors,attr"`
	Time       float64    `xml:"time,attr"`
	Properties []Property `xml:"properties>property"`
	TestCases  []TestCase `xml:"testcase"`
}

// testSuites is the optional <testsuites> wrapper some producers emit.
type testSuites struct {
	XMLName xml.Name    `xml:"testsuites"`
	Suites  []TestSuite `xml:"testsuite"`
}

// Document is a parsed JUnit results file. Raw holds the original bytes so
// they can be attached to submitted test logs unmodified.
type Document struct {
	Suites []TestSuite
	Raw    []byte
}

// ParseFile reads and parses a JUnit XML results file. Both a bare
// <testsuite> root and a <testsuites> wrapper are accepted.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read results file %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("results file %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses JUnit XML content.
func Parse(data []byte) (*Document, error) {
	var wrapper testSuites
	if err := xml.Unmarshal(data, &wrapper); err == nil && len(wrapper.Suites) > 0 {
		logging.Debug("JUnit", "Parsed %d test suites", len(wrapper.Suites))
		return &Document{Suites: wrapper.Suites, Raw: data}, nil
	}

	var suite TestSuite
	if err := xml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("not valid JUnit XML: %w", err)
	}
	return &Document{Suites: []TestSuite{suite}, Raw: data}, nil
}

// Cases returns all test cases across all suites in document order.
func (d *Document) Cases() []TestCase {
	var cases []TestCase
	for _, suite := range d.Suites {
		cases = append(cases, suite.TestCases...)
	}
	return cases
}

// SuiteProperties flattens suite-level properties into a single map.
// Later suites override earlier ones on name collisions.
func (d *Document) SuiteProperties() map[string]string {
	props := make(map[string]string)
	for _, suite := range d.Suites {
		for _, p := range suite.Properties {
			props[p.Name] = p.Value
		}
	}
	return props
}

// Property returns the value of the first case-level property with the given
// name.
func (c *TestCase) Property(name string) (string, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// PropertyValues returns the values of every case-level property with the
// given name, in order. Repeatable properties (e.g. jira links) use this.
func (c *TestCase) PropertyValues(name string) []string {
	var values []string
	for _, p := range c.Properties {
		if p.Name == name {
			values = append(values, p.Value)
		}
	}
	return values
}
