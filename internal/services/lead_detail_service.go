package services

import (
	"context"
	"fmt"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/pkg/phone"
)

const notAvailable = "N/A"

// LeadDetail is the display form of a single lead.
type LeadDetail struct {
	Lead       models.Lead
	Phone      string
	Company    string
	Source     string
	Value      string
	Created    string
	Updated    string
	StageLabel string
	Badge      models.BadgeVariant
	MailtoURL  string
	TelURL     string
	HasNotes   bool
}

// LeadDetailService builds the detail view of a lead
type LeadDetailService struct {
	repo        LeadRepository
	phoneRegion string
}

func NewLeadDetailService(repo LeadRepository, phoneRegion string) *LeadDetailService {
	return &LeadDetailService{repo: repo, phoneRegion: phoneRegion}
}

// Detail fetches the lead. A missing lead yields ErrNotFound.
func (s *LeadDetailService) Detail(ctx context.Context, id string) (*LeadDetail, error) {
	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildLeadDetail(lead, s.phoneRegion), nil
}

// BuildLeadDetail renders display strings for a lead.
func BuildLeadDetail(lead *models.Lead, phoneRegion string) *LeadDetail {
	d := &LeadDetail{
		Lead:       *lead,
		Phone:      orNA(phone.FormatInternational(lead.Phone, phoneRegion)),
		Company:    orNA(lead.Company),
		Source:     notAvailable,
		Value:      FormatMoney(lead.Value),
		Created:    notAvailable,
		Updated:    notAvailable,
		StageLabel: lead.Stage.Label(),
		Badge:      lead.Stage.BadgeVariant(),
		HasNotes:   lead.Notes != "",
	}
	if lead.Source != "" {
		d.Source = models.SourceLabel(lead.Source)
	}
	if t, ok := lead.Created(); ok {
		d.Created = t.Format(DateLayout)
	}
	if t, ok := lead.Updated(); ok {
		d.Updated = t.Format(DateLayout)
	}
	if lead.Email != "" {
		d.MailtoURL = "mailto:" + lead.Email
	}
	if lead.Phone != "" {
		d.TelURL = "tel:" + phone.NormalizeE164(lead.Phone, phoneRegion)
	}
	return d
}

// DateLayout renders dates as "Jan 02, 2006".
const DateLayout = "Jan 02, 2006"

// FormatMoney renders a deal value as "$1500.50"; nil is "$0.00".
func FormatMoney(v *float64) string {
	if v == nil {
		return "$0.00"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
