package model

import "time"

// Report is the persisted envelope around a captured ExceptionDetail.
// The capture core hands over a plain serializable value; this model is
// what the ingest service stores for auditing, debugging, and monitoring.
type Report struct {
	ID string `gorm:"primaryKey;size:36" json:"id"` // uuid assigned at ingest

	// Where the error happened
	Service string `gorm:"size:100;index" json:"service"` // e.g. "order_ingest"
	Host    string `gorm:"size:255" json:"host"`

	// Error information
	ErrorCode     string `gorm:"size:20;index" json:"error_code"`
	ExceptionType string `gorm:"size:255;index" json:"exception_type"`
	Message       string `gorm:"type:text" json:"message"`

	// Severity level
	Level string `gorm:"size:20;index" json:"level"` // debug | info | warn | error | fatal

	// Full captured detail chain stored as JSON
	Detail string `gorm:"type:jsonb" json:"detail,omitempty"`

	// Canonical human-readable rendering
	Formatted string `gorm:"type:text" json:"formatted,omitempty"`

	// Audit info
	CreatedAt time.Time `json:"created_at"`
}
