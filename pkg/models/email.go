package models

import (
	"fmt"
	"strings"
)

// EmailMessage is the inbound payload accepted by the ingestion surface,
// both the HTTP endpoint and the ingest CLI command.
type EmailMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`
}

// Validate checks that every required field is a non-empty string.
func (m EmailMessage) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"subject", m.Subject},
		{"body", m.Body},
		{"sender", m.Sender},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
