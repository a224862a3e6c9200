package models

import "github.com/AlekSi/pointer"

// Request and response bodies of the Tableau REST API. Field names are fixed
// camelCase identifiers and must match exactly.

// SignInBody is the body of POST /auth/signin.
type SignInBody struct {
	Credentials SignInCredentials `json:"credentials"`
}

// SignInCredentials carries the PAT pair and the target site.
type SignInCredentials struct {
	PersonalAccessTokenName   string  `json:"personalAccessTokenName"`
	PersonalAccessTokenSecret string  `json:"personalAccessTokenSecret"`
	Site                      SiteRef `json:"site"`
}

// SiteRef addresses a site by id or content URL.
type SiteRef struct {
	ID         string `json:"id,omitempty"`
	ContentURL string `json:"contentUrl"`
}

// SignInResponse is the response of POST /auth/signin.
type SignInResponse struct {
	Credentials *SignInResult `json:"credentials"`
}

// SignInResult holds the issued token and the resolved site and user.
type SignInResult struct {
	Token string  `json:"token"`
	Site  SiteRef `json:"site"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

// ProjectRef is the project an asset lives in.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DataSourceJSON is one entry of the datasources collection.
type DataSourceJSON struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ContentURL *string     `json:"contentUrl,omitempty"`
	Type       *string     `json:"type,omitempty"`
	Project    *ProjectRef `json:"project,omitempty"`
}

// WorkbookJSON is one entry of the workbooks collection.
type WorkbookJSON struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ContentURL *string     `json:"contentUrl,omitempty"`
	Project    *ProjectRef `json:"project,omitempty"`
}

// DataSourcesResponse is the response of GET /sites/{site}/datasources.
type DataSourcesResponse struct {
	DataSources *struct {
		DataSource []DataSourceJSON `json:"datasource"`
	} `json:"datasources"`
}

// WorkbooksResponse is the response of GET /sites/{site}/workbooks.
type WorkbooksResponse struct {
	Workbooks *struct {
		Workbook []WorkbookJSON `json:"workbook"`
	} `json:"workbooks"`
}

// ConnectionJSON is one entry of an asset's connections collection.
type ConnectionJSON struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	ServerAddress string  `json:"serverAddress"`
	ServerPort    string  `json:"serverPort"`
	UserName      *string `json:"userName,omitempty"`
}

// ConnectionsResponse is the response of GET .../{id}/connections.
type ConnectionsResponse struct {
	Connections *struct {
		Connection []ConnectionJSON `json:"connection"`
	} `json:"connections"`
}

// UpdateConnectionBody is the body of PUT .../connections/{connId}.
type UpdateConnectionBody struct {
	Connection UpdateConnectionFields `json:"connection"`
}

// UpdateConnectionFields are the four writable connection fields.
type UpdateConnectionFields struct {
	ServerAddress string `json:"serverAddress"`
	ServerPort    string `json:"serverPort"`
	UserName      string `json:"userName"`
	Password      string `json:"password"`
}

// ToAsset converts a data source entry to an Asset without connections.
func (d DataSourceJSON) ToAsset() Asset {
	a := Asset{
		ID:         d.ID,
		Name:       d.Name,
		ContentURL: pointer.GetString(d.ContentURL),
		Type:       pointer.GetString(d.Type),
	}
	if d.Project != nil {
		a.ProjectName = d.Project.Name
	}
	return a
}

// ToAsset converts a workbook entry to an Asset without connections.
func (w WorkbookJSON) ToAsset() Asset {
	a := Asset{
		ID:         w.ID,
		Name:       w.Name,
		ContentURL: pointer.GetString(w.ContentURL),
	}
	if w.Project != nil {
		a.ProjectName = w.Project.Name
	}
	return a
}

// ToConnection converts a wire connection. An absent userName becomes empty.
func (c ConnectionJSON) ToConnection() Connection {
	return Connection{
		ID:            c.ID,
		Type:          c.Type,
		ServerAddress: c.ServerAddress,
		ServerPort:    c.ServerPort,
		UserName:      pointer.GetString(c.UserName),
	}
}

// NewUpdateConnectionBody builds the PUT body from a ConnectionUpdate.
func NewUpdateConnectionBody(u ConnectionUpdate) UpdateConnectionBody {
	return UpdateConnectionBody{Connection: UpdateConnectionFields{
		ServerAddress: u.ServerAddress,
		ServerPort:    u.ServerPort,
		UserName:      u.UserName,
		Password:      u.Password,
	}}
}
