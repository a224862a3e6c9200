package tableau

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// UpdateConnection pushes new server, port, username and password to one
// connection. A nil error means the upstream accepted the update.
// PUT /api/{v}/sites/{site}/{datasources|workbooks}/{id}/connections/{connId}
func (s *Service) UpdateConnection(
	ctx context.Context,
	session *models.Session,
	parentType models.ParentType,
	parentID, connectionID string,
	update models.ConnectionUpdate,
) error {
	failure := &UpdateFailure{ParentType: parentType, ParentID: parentID, ConnectionID: connectionID}

	if !parentType.Valid() {
		failure.Err = fmt.Errorf("unknown parent type %q", parentType)
		return failure
	}

	route := siteRoot(session) + "/" + parentType.Collection() + "/" + url.PathEscape(parentID) +
		"/connections/" + url.PathEscape(connectionID)

	resp, err := s.do(ctx, http.MethodPut, route, session.Token, models.NewUpdateConnectionBody(update))
	if err != nil {
		failure.Err = err
		return failure
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		failure.StatusCode = resp.StatusCode
		failure.Body = readErrorBody(resp)
		return failure
	}

	return nil
}

// UpdateGroup updates every member of the group sequentially, in member
// order, and returns one outcome per member. A failed member never stops the
// batch. When ctx is done, the remaining members are reported as failed
// without being attempted.
func (s *Service) UpdateGroup(ctx context.Context, session *models.Session, group models.ConnectionGroup, update models.ConnectionUpdate) []models.UpdateOutcome {
	outcomes := make([]models.UpdateOutcome, 0, len(group.Members))

	for i, member := range group.Members {
		outcome := models.UpdateOutcome{
			ParentID:     member.ParentID,
			ParentName:   member.ParentName,
			ParentType:   member.ParentType,
			ConnectionID: member.ID,
		}

		if err := ctx.Err(); err != nil {
			outcome.Error = fmt.Sprintf("not attempted: %v", err)
			outcomes = append(outcomes, outcome)
			continue
		}

		s.log.Info("Updating %s %q connection %s (%d/%d)", member.ParentType, member.ParentName, member.ID, i+1, len(group.Members))

		err := s.UpdateConnection(ctx, session, member.ParentType, member.ParentID, member.ID, update)
		if err != nil {
			s.log.Error("Update of %s %q failed: %v", member.ParentType, member.ParentName, err)
			outcome.Error = failureMessage(err)
		} else {
			outcome.Success = true
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func failureMessage(err error) string {
	var failure *UpdateFailure
	if errors.As(err, &failure) && failure.StatusCode != 0 {
		return fmt.Sprintf("status %d: %s", failure.StatusCode, failure.Body)
	}
	return err.Error()
}
