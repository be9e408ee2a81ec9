package models

// Analytics is the aggregate snapshot served by GET /leads/analytics.
type Analytics struct {
	TotalLeads     int     `json:"totalLeads"`
	ConvertedLeads int     `json:"convertedLeads"`
	LostLeads      int     `json:"lostLeads"`
	AvgDealValue   float64 `json:"avgDealValue"`
}

// OpenLeads counts leads that are neither converted nor lost.
func (a Analytics) OpenLeads() int {
	open := a.TotalLeads - a.ConvertedLeads - a.LostLeads
	if open < 0 {
		return 0
	}
	return open
}
