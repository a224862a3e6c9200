package models

import "fmt"

// GroupKey identifies a connection group. It is compared field by field, so
// values containing any separator character cannot collide.
type GroupKey struct {
	ServerAddress string `json:"serverAddress"`
	ServerPort    string `json:"serverPort"`
	UserName      string `json:"userName"`
}

// String formats the key as server:port/user for display.
func (k GroupKey) String() string {
	server := k.ServerAddress
	if server == "" {
		server = "(none)"
	}
	user := k.UserName
	if user == "" {
		user = "(no user)"
	}
	if k.ServerPort == "" {
		return fmt.Sprintf("%s/%s", server, user)
	}
	return fmt.Sprintf("%s:%s/%s", server, k.ServerPort, user)
}

// ConnectionGroup is the set of connections sharing one GroupKey.
type ConnectionGroup struct {
	ID              int          `json:"id"`
	Key             GroupKey     `json:"key"`
	Members         []Connection `json:"members"`
	DataSourceCount int          `json:"dataSourceCount"`
	WorkbookCount   int          `json:"workbookCount"`
}

// FindGroupByID returns the group with the given display id.
func FindGroupByID(groups []ConnectionGroup, id int) (*ConnectionGroup, bool) {
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i], true
		}
	}
	return nil, false
}

// FindGroupByKey returns the group with the given key.
func FindGroupByKey(groups []ConnectionGroup, key GroupKey) (*ConnectionGroup, bool) {
	for i := range groups {
		if groups[i].Key == key {
			return &groups[i], true
		}
	}
	return nil, false
}
