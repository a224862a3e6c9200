package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/aaearon/tabrotate/internal/tableau"
	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// SessionName is the name of the session cookie.
const SessionName = "tabrotate-session"

const sessionKeyHandle = "handle"

type signInRequest struct {
	ServerURL   string `json:"serverUrl"`
	TokenName   string `json:"tokenName"`
	TokenSecret string `json:"tokenSecret"`
	Site        string `json:"site"`
}

type signInResponse struct {
	ServerURL      string `json:"serverUrl"`
	SiteID         string `json:"siteId"`
	SiteContentURL string `json:"siteContentUrl"`
	UserID         string `json:"userId"`
}

type groupsResponse struct {
	Groups          []models.ConnectionGroup `json:"groups"`
	Warnings        []models.FetchWarning    `json:"warnings"`
	DataSourceCount int                      `json:"dataSourceCount"`
	WorkbookCount   int                      `json:"workbookCount"`
}

type updateGroupRequest struct {
	Group  models.GroupKey         `json:"group"`
	Update models.ConnectionUpdate `json:"update"`
}

type updateGroupResponse struct {
	RunID    string                 `json:"runId"`
	GroupID  int                    `json:"groupId"`
	Outcomes []models.UpdateOutcome `json:"outcomes"`
	Summary  models.UpdateSummary   `json:"summary"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	if req.ServerURL == "" || req.TokenName == "" || req.TokenSecret == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "serverUrl, tokenName and tokenSecret are required")
		return
	}

	session, err := s.core.SignIn(r.Context(), models.SignInRequest{
		ServerURL:   req.ServerURL,
		TokenName:   req.TokenName,
		TokenSecret: req.TokenSecret,
		Site:        req.Site,
	})
	if err != nil {
		s.writeCoreError(w, r, "sign in", err)
		return
	}

	cookie, _ := s.cookies.Get(r, SessionName)
	if old, ok := cookie.Values[sessionKeyHandle].(string); ok {
		s.sessions.remove(old)
	}
	cookie.Values[sessionKeyHandle] = s.sessions.put(session)
	if err := cookie.Save(r, w); err != nil {
		s.logger.Error("Failed to save session cookie", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to save session")
		return
	}

	_ = WriteJSON(w, http.StatusOK, signInResponse{
		ServerURL:      session.BaseURL,
		SiteID:         session.SiteID,
		SiteContentURL: session.SiteContentURL,
		UserID:         session.UserID,
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	cookie, _ := s.cookies.Get(r, SessionName)
	if handle, ok := cookie.Values[sessionKeyHandle].(string); ok {
		if session, found := s.sessions.remove(handle); found {
			// An already expired token fails to sign out; the local session is gone either way.
			if err := s.core.SignOut(r.Context(), session); err != nil {
				s.logger.Warn("Upstream sign out failed", zap.Error(err))
			}
		}
	}

	expireCookie(cookie)
	if err := cookie.Save(r, w); err != nil {
		s.logger.Error("Failed to clear session cookie", zap.Error(err))
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	session, handle, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	inv, err := s.core.Enumerate(r.Context(), session)
	if err != nil {
		s.forgetIfUnauthorized(handle, err)
		s.writeCoreError(w, r, "enumerate", err)
		return
	}

	groups := tableau.GroupInventory(inv)
	warnings := inv.Warnings
	if warnings == nil {
		warnings = []models.FetchWarning{}
	}

	_ = WriteJSON(w, http.StatusOK, groupsResponse{
		Groups:          groups,
		Warnings:        warnings,
		DataSourceCount: len(inv.DataSources),
		WorkbookCount:   len(inv.Workbooks),
	})
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	session, handle, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	if err := req.Update.Validate(req.Group); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// A dropped client must not leave the group half rotated: the batch
	// always runs the full member list.
	ctx := context.WithoutCancel(r.Context())

	// Membership may have changed since the client listed groups, so the
	// group is resolved against a fresh enumeration.
	inv, err := s.core.Enumerate(ctx, session)
	if err != nil {
		s.forgetIfUnauthorized(handle, err)
		s.writeCoreError(w, r, "enumerate", err)
		return
	}

	group, found := models.FindGroupByKey(tableau.GroupInventory(inv), req.Group)
	if !found {
		_ = ErrorResponse(w, http.StatusNotFound, "group_not_found", "no connections match "+req.Group.String())
		return
	}

	runID := xid.New().String()
	s.logger.Info("Updating connection group",
		zap.String("run_id", runID),
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("group", group.Key.String()),
		zap.Int("members", len(group.Members)),
	)

	outcomes := s.core.UpdateGroup(ctx, session, *group, req.Update)
	summary := models.Summarize(outcomes)

	s.logger.Info("Connection group updated",
		zap.String("run_id", runID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)

	_ = WriteJSON(w, http.StatusOK, updateGroupResponse{
		RunID:    runID,
		GroupID:  group.ID,
		Outcomes: outcomes,
		Summary:  summary,
	})
}

// currentSession resolves the caller's Tableau session, writing a 401 when there is none.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (*models.Session, string, bool) {
	cookie, _ := s.cookies.Get(r, SessionName)
	handle, _ := cookie.Values[sessionKeyHandle].(string)
	if handle != "" {
		if session, ok := s.sessions.get(handle); ok {
			return session, handle, true
		}
	}
	_ = ErrorResponse(w, http.StatusUnauthorized, "not_signed_in", "sign in first")
	return nil, "", false
}

// forgetIfUnauthorized drops a session whose token the server no longer accepts.
func (s *Server) forgetIfUnauthorized(handle string, err error) {
	var enumErr *tableau.EnumerationError
	if errors.As(err, &enumErr) && enumErr.StatusCode == http.StatusUnauthorized {
		s.sessions.remove(handle)
	}
}

func (s *Server) writeCoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		authErr  *tableau.AuthenticationError
		enumErr  *tableau.EnumerationError
		protoErr *tableau.ProtocolError
	)

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, tableau.ErrInvalidSignIn):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.As(err, &authErr):
		status, code = http.StatusUnauthorized, "authentication_failed"
		if authErr.StatusCode == 0 {
			status, code = http.StatusBadGateway, "upstream_unreachable"
		}
	case errors.As(err, &enumErr):
		status, code = http.StatusBadGateway, "upstream_error"
		if enumErr.StatusCode == http.StatusUnauthorized {
			status, code = http.StatusUnauthorized, "session_expired"
		}
	case errors.As(err, &protoErr):
		status, code = http.StatusBadGateway, "upstream_protocol_error"
	}

	s.logger.Error("Core call failed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	_ = ErrorResponse(w, status, code, err.Error())
}

func expireCookie(session *sessions.Session) {
	delete(session.Values, sessionKeyHandle)
	session.Options.MaxAge = -1
}
