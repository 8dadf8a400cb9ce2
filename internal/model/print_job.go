// internal/model/print_job.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PrintMethod names the way a receipt leaves the service
type PrintMethod string

const (
	MethodDialog    PrintMethod = "dialog"
	MethodDocument  PrintMethod = "document"
	MethodWireless  PrintMethod = "wireless"
	MethodNetworked PrintMethod = "networked"
	MethodSerial    PrintMethod = "serial"
	MethodUSB       PrintMethod = "usb"
)

// JobStatus represents the outcome of a print job
type JobStatus string

const (
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JSONObject type for PostgreSQL JSONB objects
type JSONObject map[string]interface{}

func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// PrintJob is the metadata of one orchestrated print attempt.
// The rendered payload is never stored.
type PrintJob struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	SaleID       string      `json:"sale_id" db:"sale_id"`
	Method       PrintMethod `json:"method" db:"method"`
	Paper        string      `json:"paper" db:"paper"`
	Transport    string      `json:"transport" db:"transport"`
	Bytes        int         `json:"bytes" db:"bytes"`
	Status       JobStatus   `json:"status" db:"status"`
	ErrorMessage *string     `json:"error_message,omitempty" db:"error_message"`
	Location     *string     `json:"location,omitempty" db:"location"`
	Options      JSONObject  `json:"options" db:"options"`
	DurationMs   int         `json:"duration_ms" db:"duration_ms"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// Succeeded reports whether the transport accepted the job
func (j *PrintJob) Succeeded() bool {
	return j.Status == JobStatusSuccess
}

// JobFilter narrows job listings
type JobFilter struct {
	Method  *PrintMethod `form:"method"`
	Status  *JobStatus   `form:"status"`
	SaleID  string       `form:"sale_id"`
	Page    int          `form:"page"`
	PerPage int          `form:"per_page"`
}

// Normalize clamps paging to sane bounds
func (f *JobFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}
