package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Stage is the pipeline stage of a lead.
type Stage string

const (
	StageNew       Stage = "new"
	StageContacted Stage = "contacted"
	StageQualified Stage = "qualified"
	StageConverted Stage = "converted"
	StageLost      Stage = "lost"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageNew, StageContacted, StageQualified, StageConverted, StageLost}

// ParseStage accepts only the five known stages.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !stage.IsValid() {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	return stage, nil
}

func (s Stage) IsValid() bool {
	switch s {
	case StageNew, StageContacted, StageQualified, StageConverted, StageLost:
		return true
	}
	return false
}

// Label is the capitalized display form, e.g. "Converted".
func (s Stage) Label() string {
	if s == "" {
		return ""
	}
	return capitalize(string(s))
}

// BadgeVariant is the visual style of a stage badge.
type BadgeVariant string

const (
	BadgeDefault     BadgeVariant = "default"
	BadgeSecondary   BadgeVariant = "secondary"
	BadgeDestructive BadgeVariant = "destructive"
)

func (s Stage) BadgeVariant() BadgeVariant {
	switch s {
	case StageConverted:
		return BadgeDefault
	case StageLost:
		return BadgeDestructive
	default:
		return BadgeSecondary
	}
}

// KnownSources are the source filter options offered by the list view.
// Lead forms accept any free text.
var KnownSources = []string{"website", "social_media", "referral", "event"}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}

// SourceLabel renders a source value for display, e.g. "Social Media".
func SourceLabel(source string) string {
	words := strings.Fields(strings.ReplaceAll(source, "_", " "))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// Lead is a sales lead as served by the leads API.
type Lead struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Company   string   `json:"company,omitempty"`
	Stage     Stage    `json:"stage"`
	Source    string   `json:"source,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// Created parses CreatedAt. The API sends ISO-8601 timestamps.
func (l *Lead) Created() (time.Time, bool) {
	return parseTimestamp(l.CreatedAt)
}

// Updated parses UpdatedAt.
func (l *Lead) Updated() (time.Time, bool) {
	return parseTimestamp(l.UpdatedAt)
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Pagination is the cursor returned with a lead page.
type Pagination struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// InitialPagination is the cursor before the first fetch completes.
func InitialPagination() Pagination {
	return Pagination{Page: 1, TotalPages: 1, TotalItems: 0}
}
