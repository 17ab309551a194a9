package testlog

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"trestle/internal/junit"
	"trestle/internal/qtest"
)

// Test execution statuses as the test-management API expects them.
const (
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)

// Case-level property names consumed from the JUnit XML.
const (
	propTestID    = "test_id"
	propJira      = "jira"
	propStartTime = "start_time"
	propEndTime   = "end_time"
)

// testcaseNamePattern extracts the log name from a raw case name, dropping
// parametrization suffixes like "[ansible://localhost]".
var testcaseNamePattern = regexp.MustCompile(`^\w+`)

// TestLog is one executed test case, reduced to the fields the
// test-management API consumes.
type TestLog struct {
	// Name is the leading word of the JUnit case name.
	Name string

	// Status is PASSED, FAILED or SKIPPED.
	Status string

	// FailureOutput is the joined failure/error text, empty when passed.
	FailureOutput string

	// AutomationContent is the UUID identifying the test case remotely.
	AutomationContent string

	// JiraIssues are the Jira ids linked to this case, in document order.
	JiraIssues []string

	// StartDate and EndDate are execution timestamps from the case
	// properties. EndDate may be empty.
	StartDate string
	EndDate   string

	// ModuleHierarchy is the derived classification path, set by the
	// caller after hierarchy derivation.
	ModuleHierarchy []string

	classname string
}

// Classname returns the fully-qualified dotted classname of the test case.
// TestLog satisfies config.RecordContext with this.
func (l *TestLog) Classname() string {
	return l.classname
}

// FromCase builds a TestLog from a parsed JUnit test case. A case missing a
// required property fails immediately and names the case.
func FromCase(c junit.TestCase) (*TestLog, error) {
	log := &TestLog{
		Status:    StatusPassed,
		classname: c.Classname,
	}

	log.Name = testcaseNamePattern.FindString(c.Name)
	if log.Name == "" {
		return nil, fmt.Errorf("test case name '%s' is invalid", c.Name)
	}

	if len(c.Failures) > 0 || len(c.Errors) > 0 {
		log.Status = StatusFailed
		var messages []string
		for _, r := range append(append([]junit.Result(nil), c.Errors...), c.Failures...) {
			messages = append(messages, r.Text)
		}
		log.FailureOutput = strings.Join(messages, "\n")
	} else if c.Skipped != nil {
		log.Status = StatusSkipped
	}

	testID, ok := c.Property(propTestID)
	if !ok {
		return nil, fmt.Errorf("test case '%s' is missing the required property '%s'", log.Name, propTestID)
	}
	if _, err := uuid.Parse(testID); err != nil {
		return nil, fmt.Errorf("test case '%s' has an invalid '%s' property: %w", log.Name, propTestID, err)
	}
	log.AutomationContent = testID

	startTime, ok := c.Property(propStartTime)
	if !ok {
		return nil, fmt.Errorf("test case '%s' is missing the required property '%s'", log.Name, propStartTime)
	}
	log.StartDate = startTime

	// A case may legitimately have no end date
	log.EndDate, _ = c.Property(propEndTime)

	log.JiraIssues = c.PropertyValues(propJira)

	return log, nil
}

// ResourceOptions carries run-scoped data attached to every submitted log.
type ResourceOptions struct {
	// FailureOutputFieldID is the custom-field id for failure output;
	// HasFailureField reports whether the remote project defines it.
	FailureOutputFieldID int
	HasFailureField      bool

	// Fields are resolved suite-level custom-field values.
	Fields []qtest.PropertyValue

	// BuildURL and BuildNumber identify the CI build.
	BuildURL    string
	BuildNumber string

	// RawXML is the original results file, attached unmodified.
	RawXML []byte

	// Now supplies the clock for defaulted dates and attachment names.
	Now time.Time
}

// Resource assembles the submission record for this log.
func (l *TestLog) Resource(opts ResourceOptions) *qtest.AutomationTestLog {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	nowStamp := now.UTC().Format("2006-01-02T15:04:05Z")

	resource := &qtest.AutomationTestLog{
		Name:              l.Name,
		AutomationContent: l.AutomationContent,
		Status:            l.Status,
		BuildURL:          opts.BuildURL,
		BuildNumber:       opts.BuildNumber,
		ModuleNames:       l.ModuleHierarchy,
		ExeStartDate:      l.StartDate,
		ExeEndDate:        l.EndDate,
	}
	if resource.ExeStartDate == "" {
		resource.ExeStartDate = nowStamp
	}
	if resource.ExeEndDate == "" {
		resource.ExeEndDate = nowStamp
	}

	if opts.HasFailureField {
		resource.Properties = append(resource.Properties, qtest.PropertyValue{
			FieldID:    opts.FailureOutputFieldID,
			FieldValue: l.FailureOutput,
		})
	}
	resource.Properties = append(resource.Properties, opts.Fields...)

	if len(opts.RawXML) > 0 {
		resource.Attachments = []qtest.Attachment{{
			Name:        fmt.Sprintf("junit_%s.xml", now.UTC().Format("2006-01-02T15-04")),
			ContentType: "application/xml",
			Data:        base64.StdEncoding.EncodeToString(opts.RawXML),
		}}
	}

	return resource
}
