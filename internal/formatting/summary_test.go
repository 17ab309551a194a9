package formatting

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"trestle/internal/testlog"
	"trestle/internal/uploader"
)

func TestRenderSummary(t *testing.T) {
	report := &uploader.Report{
		TestCycle: "pike",
		Entries: []uploader.Entry{
			{
				Log: &testlog.TestLog{
					Name:            "test_pass",
					Status:          testlog.StatusPassed,
					ModuleHierarchy: []string{"one", "two", "tests.test_default"},
				},
				TestCaseID:    815,
				TestCaseKnown: true,
			},
			{
				Log: &testlog.TestLog{
					Name:            "test_fail",
					Status:          testlog.StatusFailed,
					ModuleHierarchy: []string{"one", "two", "tests.test_default"},
				},
			},
		},
	}

	var buf bytes.Buffer
	RenderSummary(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "test_pass")
	assert.Contains(t, out, "test_fail")
	assert.Contains(t, out, "one / two / tests.test_default")
	assert.Contains(t, out, "815")
	assert.Contains(t, out, "new")
	assert.Contains(t, out, `Cycle "pike": 1 passed, 1 failed, 0 skipped`)
}

func TestRenderSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, &uploader.Report{TestCycle: "pike"})

	assert.Contains(t, buf.String(), `Cycle "pike": 0 passed, 0 failed, 0 skipped`)
}
