package models

// ParentType tags the kind of asset that owns a connection.
type ParentType string

const (
	ParentDataSource ParentType = "datasource"
	ParentWorkbook   ParentType = "workbook"
)

// Collection returns the REST collection segment for the parent type.
func (p ParentType) Collection() string {
	switch p {
	case ParentDataSource:
		return "datasources"
	case ParentWorkbook:
		return "workbooks"
	default:
		return ""
	}
}

// Valid reports whether p is one of the known parent types.
func (p ParentType) Valid() bool {
	return p == ParentDataSource || p == ParentWorkbook
}

// Asset is a data source or workbook together with its embedded connections.
type Asset struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	ContentURL  string       `json:"contentUrl,omitempty"`
	ProjectName string       `json:"projectName,omitempty"`
	Type        string       `json:"type,omitempty"` // data sources only
	Connections []Connection `json:"connections"`
}

// Connection is one database connection embedded in exactly one asset.
type Connection struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	ServerAddress string `json:"serverAddress"`
	ServerPort    string `json:"serverPort"`
	UserName      string `json:"userName"`

	// Parent linkage, filled in during enumeration.
	ParentID   string     `json:"parentId"`
	ParentType ParentType `json:"parentType"`
	ParentName string     `json:"parentName"`
}

// Key returns the grouping key of the connection.
func (c Connection) Key() GroupKey {
	return GroupKey{
		ServerAddress: c.ServerAddress,
		ServerPort:    c.ServerPort,
		UserName:      c.UserName,
	}
}

// FetchWarning records an asset whose connections could not be fetched.
// Enumeration treats such an asset as having zero connections.
type FetchWarning struct {
	ParentID   string     `json:"parentId"`
	ParentType ParentType `json:"parentType"`
	ParentName string     `json:"parentName"`
	StatusCode int        `json:"statusCode,omitempty"`
	Message    string     `json:"message"`
}

// Inventory is the result of one enumeration pass.
type Inventory struct {
	DataSources []Asset        `json:"dataSources"`
	Workbooks   []Asset        `json:"workbooks"`
	Warnings    []FetchWarning `json:"warnings,omitempty"`
}

// ConnectionCount returns the number of connections across all assets.
func (inv *Inventory) ConnectionCount() int {
	n := 0
	for _, a := range inv.DataSources {
		n += len(a.Connections)
	}
	for _, a := range inv.Workbooks {
		n += len(a.Connections)
	}
	return n
}
