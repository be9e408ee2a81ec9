package models

// Envelope is the response shape of every leads API endpoint.
type Envelope[T any] struct {
	Success    bool        `json:"success"`
	Data       *T          `json:"data,omitempty"`
	Leads      []T         `json:"leads,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// LeadEnvelope carries a single lead or a page of leads.
type LeadEnvelope = Envelope[Lead]

// AnalyticsEnvelope carries the analytics snapshot.
type AnalyticsEnvelope = Envelope[Analytics]
