package mailer

// EmailJob is the JSON payload on the notification queue. Either the
// pre-rendered Subject/Text/HTML are set, or Template names one of the
// reservation templates and Data holds its fields.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // reservation_created, reservation_returned, reservation_overdue
	Data     map[string]any `json:"data,omitempty"`
}

// Rendered reports whether the job already carries its bodies.
func (j EmailJob) Rendered() bool {
	return j.Template == "" && j.Subject != "" && (j.Text != "" || j.HTML != "")
}
