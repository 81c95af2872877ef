package dto

import (
	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/hanson"
)

// AreaSummary identifies an available area
type AreaSummary struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Revision       string `json:"revision,omitempty"`
	ID             string `json:"id,omitempty"`
	DepartmentAbbr string `json:"dept,omitempty"`
	Path           string `json:"path"`
}

// AreaDetail is an area with its canonical requirement tree in Hanson notation
type AreaDetail struct {
	AreaSummary
	Requirements map[string]interface{} `json:"requirements"`
}

// NewAreaSummary describes a definition
func NewAreaSummary(d *area.Definition) AreaSummary {
	return AreaSummary{
		Name:           d.Name,
		Type:           d.Type,
		Revision:       d.Revision,
		ID:             d.ID,
		DepartmentAbbr: d.DepartmentAbbr,
		Path:           d.Key().Path(),
	}
}

// NewAreaDetail describes a definition together with its requirements
func NewAreaDetail(d *area.Definition) *AreaDetail {
	return &AreaDetail{
		AreaSummary:  NewAreaSummary(d),
		Requirements: hanson.Encode(d.Requirements()),
	}
}
