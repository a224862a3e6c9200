package cmd

import (
	"time"

	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// rotationOutput is the JSON representation of a finished rotation.
type rotationOutput struct {
	RunID             string                 `json:"runId"`
	GroupID           int                    `json:"groupId"`
	Group             models.GroupKey        `json:"group"`
	Outcomes          []models.UpdateOutcome `json:"outcomes"`
	Summary           models.UpdateSummary   `json:"summary"`
	GeneratedPassword string                 `json:"generatedPassword,omitempty"`
}

// listOutput is the JSON representation of an enumeration.
type listOutput struct {
	DataSourceCount int                      `json:"dataSourceCount"`
	WorkbookCount   int                      `json:"workbookCount"`
	Groups          []models.ConnectionGroup `json:"groups"`
	Warnings        []models.FetchWarning    `json:"warnings"`
}

// statusOutput is the JSON representation of tabrotate status.
type statusOutput struct {
	Profile       string     `json:"profile"`
	Server        string     `json:"server"`
	Site          string     `json:"site"`
	Authenticated bool       `json:"authenticated"`
	SiteID        string     `json:"siteId,omitempty"`
	UserID        string     `json:"userId,omitempty"`
	APIVersion    string     `json:"apiVersion,omitempty"`
	SignedInAt    *time.Time `json:"signedInAt,omitempty"`
}

// profileOutput is the JSON representation of a configured profile.
type profileOutput struct {
	Name       string `json:"name"`
	Server     string `json:"server"`
	Site       string `json:"site"`
	TokenName  string `json:"tokenName"`
	APIVersion string `json:"apiVersion,omitempty"`
	Default    bool   `json:"default"`
}
