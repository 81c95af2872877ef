package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the kind of caller authenticated against the audit API.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdvisor Role = "ADVISOR"
)

// AuditRecord is a persisted audit of one student against the areas on their record.
type AuditRecord struct {
	ID                uuid.UUID `json:"id" db:"id"`
	StudentIdentifier string    `json:"studentIdentifier" db:"student_identifier"`
	Result            bool      `json:"result" db:"result"`
	Report            []byte    `json:"-" db:"report"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}
