package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Status is the backend-owned document lifecycle state. The client only
// observes it; every transition arrives via a fresh list snapshot.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Terminal reports whether no further transition is expected. The client
// still tolerates one if the backend disagrees.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// Known reports whether the status is one of the four documented states.
// Unknown values are preserved verbatim and rendered as-is.
func (s Status) Known() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusReady, StatusError:
		return true
	}
	return false
}

// Label returns the display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusUploaded:
		return "Uploaded"
	case StatusProcessing:
		return "Processing"
	case StatusReady:
		return "Ready"
	case StatusError:
		return "Error"
	}
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Document is one uploaded file as reported by the upload service.
type Document struct {
	ID         string
	Filename   string
	Status     Status
	UploadedAt time.Time
}

// Selectable reports whether the document may be chosen for questioning.
func (d Document) Selectable() bool {
	return d.Status == StatusReady
}

// UnmarshalJSON tolerates the field spellings the upload service has used
// across iterations: id vs document_id (string or number), uploaded_at vs
// created_at.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         flexID   `json:"id"`
		DocumentID flexID   `json:"document_id"`
		Filename   string   `json:"filename"`
		Status     string   `json:"status"`
		UploadedAt flexTime `json:"uploaded_at"`
		CreatedAt  flexTime `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.ID = string(raw.ID)
	if d.ID == "" {
		d.ID = string(raw.DocumentID)
	}
	d.Filename = raw.Filename
	d.Status = Status(strings.ToLower(raw.Status))
	d.UploadedAt = time.Time(raw.UploadedAt)
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Time(raw.CreatedAt)
	}
	return nil
}

// flexID decodes a JSON string or number into a string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexTime decodes the timestamp formats the backend emits (RFC 3339 with or
// without zone, or bare date-time).
type flexTime time.Time

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = flexTime(time.Time{})
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == "" {
		*f = flexTime(time.Time{})
		return nil
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, v); err == nil {
			*f = flexTime(t)
			return nil
		}
	}
	// Epoch seconds as a last resort.
	if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
		*f = flexTime(time.Unix(sec, 0).UTC())
		return nil
	}
	*f = flexTime(time.Time{})
	return nil
}
