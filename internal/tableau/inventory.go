package tableau

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aaearon/tabrotate/internal/tableau/models"
)

func siteRoot(session *models.Session) string {
	return session.APIRoot() + "/sites/" + url.PathEscape(session.SiteID)
}

// ListDataSources retrieves all data sources of the session's site.
// GET /api/{v}/sites/{site}/datasources
func (s *Service) ListDataSources(ctx context.Context, session *models.Session) ([]models.Asset, error) {
	var result models.DataSourcesResponse
	if err := s.getCollection(ctx, session, "datasources", &result); err != nil {
		return nil, err
	}

	assets := []models.Asset{}
	if result.DataSources == nil {
		return assets, nil
	}
	for _, d := range result.DataSources.DataSource {
		assets = append(assets, d.ToAsset())
	}
	return assets, nil
}

// ListWorkbooks retrieves all workbooks of the session's site.
// GET /api/{v}/sites/{site}/workbooks
func (s *Service) ListWorkbooks(ctx context.Context, session *models.Session) ([]models.Asset, error) {
	var result models.WorkbooksResponse
	if err := s.getCollection(ctx, session, "workbooks", &result); err != nil {
		return nil, err
	}

	assets := []models.Asset{}
	if result.Workbooks == nil {
		return assets, nil
	}
	for _, w := range result.Workbooks.Workbook {
		assets = append(assets, w.ToAsset())
	}
	return assets, nil
}

// getCollection fetches a site-scoped parent collection. Any failure is an
// EnumerationError since nothing can be grouped without the parent list.
func (s *Service) getCollection(ctx context.Context, session *models.Session, collection string, dst interface{}) error {
	resp, err := s.do(ctx, http.MethodGet, siteRoot(session)+"/"+collection, session.Token, nil)
	if err != nil {
		return &EnumerationError{Collection: collection, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &EnumerationError{Collection: collection, StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &EnumerationError{
			Collection: collection,
			Err:        &ProtocolError{Op: "list " + collection, Err: fmt.Errorf("failed to decode response: %w", err)},
		}
	}
	return nil
}

// ListConnections retrieves the connections of one asset. Failures are not
// fatal: they are logged and reported as a FetchWarning with an empty result,
// so one inaccessible asset does not abort the inventory.
// GET /api/{v}/sites/{site}/{datasources|workbooks}/{id}/connections
func (s *Service) ListConnections(ctx context.Context, session *models.Session, parentType models.ParentType, parentID string) ([]models.Connection, *models.FetchWarning) {
	conns := []models.Connection{}
	warn := func(status int, msg string) *models.FetchWarning {
		s.log.Info("Warning: skipping connections of %s %s: %s", parentType, parentID, msg)
		return &models.FetchWarning{ParentID: parentID, ParentType: parentType, StatusCode: status, Message: msg}
	}

	if !parentType.Valid() {
		return conns, warn(0, fmt.Sprintf("unknown parent type %q", parentType))
	}

	route := siteRoot(session) + "/" + parentType.Collection() + "/" + url.PathEscape(parentID) + "/connections"
	resp, err := s.do(ctx, http.MethodGet, route, session.Token, nil)
	if err != nil {
		return conns, warn(0, err.Error())
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body := readErrorBody(resp)
		return conns, warn(resp.StatusCode, fmt.Sprintf("connections request failed with status %d: %s", resp.StatusCode, body))
	}

	var result models.ConnectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return conns, warn(0, fmt.Sprintf("failed to decode connections response: %v", err))
	}
	if result.Connections == nil {
		return conns, nil
	}

	for _, c := range result.Connections.Connection {
		conns = append(conns, c.ToConnection())
	}
	return conns, nil
}

// Enumerate lists data sources and workbooks and fetches each asset's
// connections, one asset at a time in upstream order, attaching parent
// linkage to every connection.
func (s *Service) Enumerate(ctx context.Context, session *models.Session) (*models.Inventory, error) {
	if session == nil {
		return nil, fmt.Errorf("enumerate requires a session")
	}

	inv := &models.Inventory{}

	dataSources, err := s.ListDataSources(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}
	s.log.Info("Found %d data sources", len(dataSources))
	if err := s.attachConnections(ctx, session, models.ParentDataSource, dataSources, inv); err != nil {
		return nil, err
	}

	workbooks, err := s.ListWorkbooks(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list workbooks: %w", err)
	}
	s.log.Info("Found %d workbooks", len(workbooks))
	if err := s.attachConnections(ctx, session, models.ParentWorkbook, workbooks, inv); err != nil {
		return nil, err
	}

	inv.DataSources = dataSources
	inv.Workbooks = workbooks
	return inv, nil
}

func (s *Service) attachConnections(ctx context.Context, session *models.Session, parentType models.ParentType, assets []models.Asset, inv *models.Inventory) error {
	for i := range assets {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("enumeration cancelled: %w", err)
		}

		asset := &assets[i]
		s.log.Info("Fetching connections for %s %q (%d/%d)", parentType, asset.Name, i+1, len(assets))

		conns, warning := s.ListConnections(ctx, session, parentType, asset.ID)
		if warning != nil {
			warning.ParentName = asset.Name
			inv.Warnings = append(inv.Warnings, *warning)
		}

		for j := range conns {
			conns[j].ParentID = asset.ID
			conns[j].ParentType = parentType
			conns[j].ParentName = asset.Name
		}
		asset.Connections = conns
	}
	return nil
}
