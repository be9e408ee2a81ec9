// Package views holds the dashboard's HTML templates and static assets.
package views

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title   string
	Nav     string
	User    *models.User
	Flashes []cache.Flash
	Data    any
}

// FieldErrors maps form field names to a message.
type FieldErrors map[string]string

// Templates parses every page template with the view helpers.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("views").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Static returns the embedded asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs are the helpers available inside templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"stageLabel":  func(s models.Stage) string { return s.Label() },
		"badge":       func(s models.Stage) string { return string(s.BadgeVariant()) },
		"sourceLabel": sourceLabel,
		"money":       services.FormatMoney,
		"date":        formatDate,
		"stages":      func() []models.Stage { return models.Stages },
		"sources":     func() []string { return models.KnownSources },
		"timezones":   func() []models.TimezoneOption { return models.Timezones },
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"json":        toJSON,
		"upper":       strings.ToUpper,
	}
}

func sourceLabel(s string) string {
	if s == "" {
		return "N/A"
	}
	return models.SourceLabel(s)
}

func formatDate(ts string) string {
	l := models.Lead{CreatedAt: ts}
	t, ok := l.Created()
	if !ok {
		return "N/A"
	}
	return t.Format(services.DateLayout)
}

// toJSON embeds a value into a script block.
func toJSON(v any) (template.JS, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(raw), nil
}
