// Package view renders entities as terminal tables
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fileupload/internal/draft"
	"fileupload/internal/entity"
	"fileupload/internal/navigation"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const timeLayout = "2006-01-02 15:04:05"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
}

// ContentCell renders the blob as "type, size", or nothing when absent
func ContentCell(e entity.Entity) string {
	return e.Attachment().Summary()
}

// Actions lists the routes reachable from an entity row
func Actions(kind entity.Kind, id string) string {
	return strings.Join([]string{
		navigation.DetailPath(kind, id),
		navigation.EditPath(kind, id),
		navigation.DeletePath(kind, id),
	}, " ")
}

// List renders the list page of a kind. An empty list renders the heading and
// an empty-state line
func List(kind entity.Kind, items []entity.Entity) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(kind.PluralLabel))
	b.WriteString("  ")
	b.WriteString(MutedStyle.Render("create: " + navigation.NewPath(kind)))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("No %s found", kind.PluralLabel)))
		b.WriteString("\n")
		return b.String()
	}

	t := newTable("ID", "Name", "Content", "Actions")
	for _, e := range items {
		t.Row(e.ID, e.Name, ContentCell(e), Actions(kind, e.ID))
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

// Detail renders every field of one entity
func Detail(kind entity.Kind, e entity.Entity) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s [%s]", kind.Label, e.ID)))
	b.WriteString("\n")

	t := newTable("Field", "Value").
		Row("ID", e.ID).
		Row("Name", e.Name).
		Row("Content", ContentCell(e)).
		Row("Content Type", e.ContentContentType).
		Row("Created", formatTime(e.CreatedAt)).
		Row("Updated", formatTime(e.UpdatedAt))
	b.WriteString(t.String())
	b.WriteString("\n")

	b.WriteString(MutedStyle.Render(fmt.Sprintf("back: %s  edit: %s",
		navigation.ListPath(kind), navigation.EditPath(kind, e.ID))))
	b.WriteString("\n")
	return b.String()
}

// Menu renders the entities menu
func Menu(items []navigation.MenuItem) string {
	t := newTable("Entity", "Route")
	for _, it := range items {
		t.Row(it.Label, it.Route)
	}
	return t.String() + "\n"
}

// FieldErrors renders validation messages sorted by field
func FieldErrors(fe draft.FieldErrors) string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, f := range fields {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%s: %s", f, fe[f])))
		b.WriteString("\n")
	}
	return b.String()
}

// Saved renders the confirmation shown after a successful write
func Saved(kind entity.Kind, e entity.Entity, created bool) string {
	verb := "updated"
	if created {
		verb = "created"
	}
	return AccentStyle.Render(fmt.Sprintf("%s %s with identifier %s", kind.Label, verb, e.ID)) + "\n"
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}
