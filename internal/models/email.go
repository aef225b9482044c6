package models

import "time"

// SourceEmail is one raw placement email as produced by the extraction
// phase upstream. Immutable once ingested; ID is the unique message id.
type SourceEmail struct {
	ID      string    `json:"message_id"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Date    time.Time `json:"date,omitempty"`
}

// Text returns subject and body joined for matching.
func (e SourceEmail) Text() string {
	if e.Subject == "" {
		return e.Body
	}
	if e.Body == "" {
		return e.Subject
	}
	return e.Subject + "\n" + e.Body
}
