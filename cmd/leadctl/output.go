package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(10)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printLeadList(w io.Writer, view services.ListView) {
	if view.Error != "" {
		fmt.Fprintln(w, errorStyle.Render(view.Error))
	}
	if view.Empty {
		fmt.Fprintln(w, "No leads found")
		return
	}

	t := newTable("ID", "NAME", "EMAIL", "COMPANY", "STAGE", "SOURCE", "VALUE")
	for _, lead := range view.Items {
		t.Row(
			lead.ID,
			lead.Name,
			lead.Email,
			orNA(lead.Company),
			lead.Stage.Label(),
			sourceOrNA(lead.Source),
			services.FormatMoney(lead.Value),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Showing %d of %d leads (page %d of %d)\n",
		view.Showing, view.Cursor.TotalItems, view.Cursor.Page, max(view.Cursor.TotalPages, 1))
}

func printLeadDetail(w io.Writer, d *services.LeadDetail) {
	rows := [][2]string{
		{"Name", d.Lead.Name},
		{"Email", d.Lead.Email},
		{"Phone", d.Phone},
		{"Company", d.Company},
		{"Stage", d.StageLabel},
		{"Source", d.Source},
		{"Value", d.Value},
		{"Created", d.Created},
		{"Updated", d.Updated},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(r[0]), r[1])
	}
	if d.HasNotes {
		fmt.Fprintf(w, "\n%s\n", d.Lead.Notes)
	}
}

func printAnalytics(w io.Writer, view *services.AnalyticsView) {
	cards := newTable("METRIC", "VALUE")
	for _, card := range view.Cards {
		cards.Row(card.Title, card.Value)
	}
	fmt.Fprintln(w, cards.Render())

	if len(view.Pie.Datasets) == 0 {
		return
	}
	breakdown := newTable("OUTCOME", "LEADS")
	counts := view.Pie.Datasets[0].Data
	for i, label := range view.Pie.Labels {
		if i < len(counts) {
			breakdown.Row(label, fmt.Sprint(counts[i]))
		}
	}
	fmt.Fprintln(w, breakdown.Render())
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func sourceOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return models.SourceLabel(s)
}
