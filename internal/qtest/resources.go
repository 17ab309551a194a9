package qtest

// PropertyValue is one custom-field value attached to a submitted test log.
type PropertyValue struct {
	FieldID    int    `json:"field_id"`
	FieldValue string `json:"field_value"`
}

// Attachment is a file attached to a submitted test log.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	// Data is base64-encoded file content.
	Data string `json:"data"`
}

// AutomationTestLog is the record submitted for one executed test case.
type AutomationTestLog struct {
	Name              string          `json:"name"`
	AutomationContent string          `json:"automation_content"`
	Status            string          `json:"status"`
	ExeStartDate      string          `json:"exe_start_date"`
	ExeEndDate        string          `json:"exe_end_date"`
	BuildURL          string          `json:"build_url,omitempty"`
	BuildNumber       string          `json:"build_number,omitempty"`
	ModuleNames       []string        `json:"module_names"`
	Properties        []PropertyValue `json:"properties"`
	Attachments       []Attachment    `json:"attachments,omitempty"`
}
