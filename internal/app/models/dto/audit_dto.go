package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/engine/area"
)

// CheckRequest is an ad-hoc student record submitted for auditing
type CheckRequest struct {
	Courses   []models.Course  `json:"courses" binding:"dive"`
	Overrides models.Overrides `json:"overrides"`
	Areas     []models.AreaRef `json:"areas" binding:"required,min=1,dive"`
}

// StudentData converts the request into engine input
func (r *CheckRequest) StudentData() models.StudentData {
	courses := r.Courses
	if courses == nil {
		courses = []models.Course{}
	}
	return models.StudentData{
		Courses:   courses,
		Overrides: r.Overrides,
		Areas:     r.Areas,
	}
}

// AuditResponse is the outcome of auditing one student against several areas. ID and
// CreatedAt are set only for stored audits.
type AuditResponse struct {
	ID        *uuid.UUID     `json:"id,omitempty"`
	Student   string         `json:"student,omitempty"`
	Result    bool           `json:"result"`
	Areas     []*area.Report `json:"areas"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
}

// StoredAuditResponse is a previously saved audit
type StoredAuditResponse struct {
	ID        uuid.UUID       `json:"id"`
	Student   string          `json:"student"`
	Result    bool            `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
	Report    json.RawMessage `json:"report"`
}

// NewStoredAuditResponse converts a persisted record
func NewStoredAuditResponse(rec *models.AuditRecord) *StoredAuditResponse {
	return &StoredAuditResponse{
		ID:        rec.ID,
		Student:   rec.StudentIdentifier,
		Result:    rec.Result,
		CreatedAt: rec.CreatedAt,
		Report:    json.RawMessage(rec.Report),
	}
}

// TokenResponse carries a signed access token
type TokenResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ExpiresIn   int         `json:"expiresIn"`
	Subject     string      `json:"subject"`
	Role        models.Role `json:"role"`
}
