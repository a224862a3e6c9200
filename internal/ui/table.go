package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aaearon/tabrotate/internal/tableau/models"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderGroups writes one row per connection group.
func RenderGroups(w io.Writer, groups []models.ConnectionGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No embedded connections found.")
		return
	}

	table := newTable(w, []string{"ID", "Server", "Port", "Username", "Data sources", "Workbooks"})
	for _, g := range groups {
		table.Append([]string{
			strconv.Itoa(g.ID),
			orDash(g.Key.ServerAddress),
			orDash(g.Key.ServerPort),
			orDash(g.Key.UserName),
			strconv.Itoa(g.DataSourceCount),
			strconv.Itoa(g.WorkbookCount),
		})
	}
	table.Render()
}

// RenderMembers lists the assets whose connections belong to a group.
func RenderMembers(w io.Writer, group models.ConnectionGroup) {
	table := newTable(w, []string{"Type", "Name", "Connection"})
	for _, m := range group.Members {
		table.Append([]string{string(m.ParentType), m.ParentName, m.ID})
	}
	table.Render()
}

// RenderOutcomes writes one row per update attempt followed by a summary line.
func RenderOutcomes(w io.Writer, outcomes []models.UpdateOutcome) {
	table := newTable(w, []string{"Type", "Name", "Result"})
	for _, o := range outcomes {
		result := "updated"
		if !o.Success {
			result = "FAILED: " + o.Error
		}
		table.Append([]string{string(o.ParentType), o.ParentName, result})
	}
	table.Render()

	fmt.Fprintln(w, FormatSummary(models.Summarize(outcomes)))
}

// FormatSummary describes a finished batch, e.g. "2 of 3 connections updated, 1 failed".
func FormatSummary(s models.UpdateSummary) string {
	msg := fmt.Sprintf("%d of %s updated", s.Succeeded, CountNoun(s.Total, "connection"))
	if s.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", s.Failed)
	}
	return msg
}

// RenderWarnings lists assets whose connections could not be read.
func RenderWarnings(w io.Writer, warnings []models.FetchWarning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "Warning: could not read connections of %s:\n", CountNoun(len(warnings), "asset"))
	for _, wn := range warnings {
		fmt.Fprintf(w, "  %s %q: %s\n", wn.ParentType, wn.ParentName, wn.Message)
	}
}
