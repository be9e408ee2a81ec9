package models

import (
	"strconv"
	"strings"
)

// LeadDraft is the editable form state of a lead. Every field is text so the
// form always renders a value.
type LeadDraft struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required,email"`
	Phone   string `form:"phone" json:"phone" validate:"omitempty,phone_number"`
	Company string `form:"company" json:"company"`
	Stage   string `form:"stage" json:"stage" validate:"required,lead_stage"`
	Source  string `form:"source" json:"source"`
	Value   string `form:"value" json:"value" validate:"nonneg_decimal"`
	Notes   string `form:"notes" json:"notes"`
}

// NewLeadDraft is the empty create form.
func NewLeadDraft() LeadDraft {
	return LeadDraft{Stage: string(StageNew)}
}

// DraftFromLead hydrates a draft, mapping absent fields to "".
func DraftFromLead(l *Lead) LeadDraft {
	d := LeadDraft{
		Name:    l.Name,
		Email:   l.Email,
		Phone:   l.Phone,
		Company: l.Company,
		Stage:   string(l.Stage),
		Source:  l.Source,
		Notes:   l.Notes,
	}
	if l.Value != nil {
		d.Value = strconv.FormatFloat(*l.Value, 'f', -1, 64)
	}
	return d
}

// LeadPayload is the body of POST /leads and PUT /leads/:id. It has no id:
// updates address the lead in the path.
type LeadPayload struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Company string   `json:"company"`
	Stage   Stage    `json:"stage"`
	Source  string   `json:"source"`
	Value   *float64 `json:"value,omitempty"`
	Notes   string   `json:"notes"`
}

// Payload converts the draft. Text is sent as entered; a blank value is omitted.
func (d LeadDraft) Payload() (LeadPayload, error) {
	p := LeadPayload{
		Name:    d.Name,
		Email:   d.Email,
		Phone:   d.Phone,
		Company: d.Company,
		Stage:   Stage(d.Stage),
		Source:  d.Source,
		Notes:   d.Notes,
	}

	if raw := strings.TrimSpace(d.Value); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return LeadPayload{}, err
		}
		p.Value = &v
	}

	return p, nil
}
