package models

import "errors"

// ConnectionUpdate holds the new values pushed to every member of a group.
type ConnectionUpdate struct {
	ServerAddress string `json:"serverAddress"`
	ServerPort    string `json:"serverPort"`
	UserName      string `json:"userName"`
	Password      string `json:"password"`
}

// Validate checks the fields every front-end requires before a batch runs
// against the group identified by current. Port and username may be empty.
// The server address may only stay empty for a group that has none, as
// Tableau-hosted extracts and published sources do.
func (u ConnectionUpdate) Validate(current GroupKey) error {
	if u.ServerAddress == "" && current.ServerAddress != "" {
		return errors.New("server address is required")
	}
	if u.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// UpdateOutcome is the result of updating one connection.
type UpdateOutcome struct {
	ParentID     string     `json:"parentId"`
	ParentName   string     `json:"parentName"`
	ParentType   ParentType `json:"parentType"`
	ConnectionID string     `json:"connectionId"`
	Success      bool       `json:"success"`
	Error        string     `json:"error,omitempty"`
}

// UpdateSummary aggregates outcomes of one batch.
type UpdateSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts successful and failed outcomes.
func Summarize(outcomes []UpdateOutcome) UpdateSummary {
	s := UpdateSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
