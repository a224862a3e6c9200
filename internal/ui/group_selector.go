package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/Iilun/survey/v2"
	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// FormatGroupOption formats a connection group into a display string.
func FormatGroupOption(group models.ConnectionGroup) string {
	return fmt.Sprintf("%d. %s (%s)", group.ID, group.Key, MemberBreakdown(group))
}

// MemberBreakdown describes how many data source and workbook connections a group holds.
func MemberBreakdown(group models.ConnectionGroup) string {
	switch {
	case group.DataSourceCount > 0 && group.WorkbookCount > 0:
		return CountNoun(group.DataSourceCount, "data source") + ", " + CountNoun(group.WorkbookCount, "workbook")
	case group.WorkbookCount > 0:
		return CountNoun(group.WorkbookCount, "workbook")
	default:
		return CountNoun(group.DataSourceCount, "data source")
	}
}

// BuildGroupOptions builds display options in group id order.
func BuildGroupOptions(groups []models.ConnectionGroup) []string {
	options := make([]string, len(groups))
	for i, group := range groups {
		options[i] = FormatGroupOption(group)
	}
	return options
}

// FindGroupByDisplay finds a group by its formatted display string.
func FindGroupByDisplay(groups []models.ConnectionGroup, display string) (*models.ConnectionGroup, error) {
	for i := range groups {
		if FormatGroupOption(groups[i]) == display {
			return &groups[i], nil
		}
	}
	return nil, fmt.Errorf("group not found: %s", display)
}

// SelectGroup presents an interactive selector for choosing a connection group.
func SelectGroup(groups []models.ConnectionGroup) (*models.ConnectionGroup, error) {
	if len(groups) == 0 {
		return nil, errors.New("no connection groups available")
	}
	if !IsInteractive() {
		return nil, fmt.Errorf("%w; use --group to choose a group", ErrNotInteractive)
	}

	var selected string
	prompt := &survey.Select{
		Message:  "Select a connection group to update:",
		Options:  BuildGroupOptions(groups),
		PageSize: 15,
	}

	if err := survey.AskOne(prompt, &selected, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)); err != nil {
		return nil, fmt.Errorf("group selection failed: %w", err)
	}

	return FindGroupByDisplay(groups, selected)
}
