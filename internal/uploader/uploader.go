package uploader

import (
	"context"
	"sort"
	"time"

	"trestle/internal/config"
	"trestle/internal/hierarchy"
	"trestle/internal/junit"
	"trestle/internal/qtest"
	"trestle/internal/testlog"
	"trestle/pkg/logging"
)

// Config keys consumed by a run.
const (
	keyTestCycle       = "test_cycle"
	keyModuleHierarchy = "module_hierarchy"
)

// Suite-level property names describing the CI build.
const (
	propBuildURL    = "BUILD_URL"
	propBuildNumber = "BUILD_NUMBER"
)

const failureOutputLabel = "Failure Output"

// API is the narrow remote contract the uploader needs. *qtest.Client
// satisfies it; tests substitute a fake.
type API interface {
	SearchTestCase(ctx context.Context, automationContent string) (int, bool, error)
	SearchRequirements(ctx context.Context, jiraID string) ([]int, error)
	FieldID(ctx context.Context, label, objectType string) (int, bool, error)
	SubmitLogs(ctx context.Context, testCycle string, logs []*qtest.AutomationTestLog) error
}

// Entry is the per-case outcome of a run.
type Entry struct {
	Log *testlog.TestLog

	// TestCaseID is the remote test-case id; TestCaseKnown is false when
	// the case has not been created remotely yet.
	TestCaseID    int
	TestCaseKnown bool

	// Requirements are the remote requirement ids linked via Jira issues.
	Requirements []int
}

// Report summarizes a completed run.
type Report struct {
	TestCycle string
	Entries   []Entry
}

// Uploader drives one results file through config resolution, hierarchy
// derivation, record assembly and submission. Any error is fatal for the
// run; nothing is retried.
type Uploader struct {
	cfg *config.Resolver
	api API

	// now is the clock used for defaulted dates; replaceable in tests.
	now func() time.Time
}

// New creates an Uploader over a resolved config and an API client.
func New(cfg *config.Resolver, api API) *Uploader {
	return &Uploader{
		cfg: cfg,
		api: api,
		now: time.Now,
	}
}

// Run processes a parsed JUnit document and submits its test logs.
func (u *Uploader) Run(ctx context.Context, doc *junit.Document) (*Report, error) {
	testCycle, err := u.cfg.GetString(keyTestCycle, nil)
	if err != nil {
		return nil, err
	}

	failureFieldID, hasFailureField, err := u.api.FieldID(ctx, failureOutputLabel, "test-runs")
	if err != nil {
		return nil, err
	}
	if !hasFailureField {
		logging.Warn("Uploader", "The remote project defines no '%s' field; failure output will not be attached", failureOutputLabel)
	}

	suiteProps := doc.SuiteProperties()
	fields, err := u.resolveSuiteFields(ctx, suiteProps)
	if err != nil {
		return nil, err
	}

	opts := testlog.ResourceOptions{
		FailureOutputFieldID: failureFieldID,
		HasFailureField:      hasFailureField,
		Fields:               fields,
		BuildURL:             suiteProps[propBuildURL],
		BuildNumber:          suiteProps[propBuildNumber],
		RawXML:               doc.Raw,
		Now:                  u.now().UTC(),
	}

	report := &Report{TestCycle: testCycle}
	var resources []*qtest.AutomationTestLog

	for _, c := range doc.Cases() {
		entry, err := u.processCase(ctx, c)
		if err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, entry)
		resources = append(resources, entry.Log.Resource(opts))
	}

	if err := u.api.SubmitLogs(ctx, testCycle, resources); err != nil {
		return nil, err
	}

	logging.Info("Uploader", "Submitted %d test logs to cycle %q", len(resources), testCycle)
	return report, nil
}

func (u *Uploader) processCase(ctx context.Context, c junit.TestCase) (Entry, error) {
	log, err := testlog.FromCase(c)
	if err != nil {
		return Entry{}, err
	}

	template, err := u.cfg.GetStringSlice(keyModuleHierarchy, log)
	if err != nil {
		return Entry{}, err
	}
	segments, err := hierarchy.Derive(log.Classname(), template)
	if err != nil {
		return Entry{}, err
	}
	log.ModuleHierarchy = segments

	entry := Entry{Log: log}
	entry.TestCaseID, entry.TestCaseKnown, err = u.api.SearchTestCase(ctx, log.AutomationContent)
	if err != nil {
		return Entry{}, err
	}

	for _, jiraID := range log.JiraIssues {
		ids, err := u.api.SearchRequirements(ctx, jiraID)
		if err != nil {
			return Entry{}, err
		}
		entry.Requirements = append(entry.Requirements, ids...)
	}

	logging.Debug("Uploader", "Processed %q: status=%s hierarchy=%v", log.Name, log.Status, segments)
	return entry, nil
}

// resolveSuiteFields maps suite-level properties onto remote custom fields.
// Properties without a matching field are skipped, matching the original
// uploader behavior. Iteration is sorted for deterministic submissions.
func (u *Uploader) resolveSuiteFields(ctx context.Context, suiteProps map[string]string) ([]qtest.PropertyValue, error) {
	names := make([]string, 0, len(suiteProps))
	for name := range suiteProps {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []qtest.PropertyValue
	for _, name := range names {
		id, ok, err := u.api.FieldID(ctx, name, "test-runs")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fields = append(fields, qtest.PropertyValue{FieldID: id, FieldValue: suiteProps[name]})
	}
	return fields, nil
}
