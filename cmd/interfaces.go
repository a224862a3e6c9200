package cmd

import (
	"context"

	"github.com/aaearon/tabrotate/internal/tableau/models"
	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// sessionSigner interface for PAT sign-in
type sessionSigner interface {
	SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error)
}

// sessionSignerOut interface for invalidating a session
type sessionSignerOut interface {
	SignOut(ctx context.Context, session *models.Session) error
}

// inventoryEnumerator interface for walking data sources and workbooks
type inventoryEnumerator interface {
	Enumerate(ctx context.Context, session *models.Session) (*models.Inventory, error)
}

// groupUpdater interface for pushing new credentials to a connection group
type groupUpdater interface {
	UpdateGroup(ctx context.Context, session *models.Session, group models.ConnectionGroup, update models.ConnectionUpdate) []models.UpdateOutcome
}

// secretStore interface for PAT secrets
type secretStore interface {
	GetSecret(tokenName string) (string, error)
	SetSecret(tokenName, secret string) error
	DeleteSecret(tokenName string) error
}

// sessionStore interface for the on-disk session cache
type sessionStore interface {
	Load(serverURL, site string) (*models.Session, bool)
	Save(session *models.Session) error
	Clear(serverURL, site string)
}

// prompter interface for interactive input
type prompter interface {
	SelectGroup(groups []models.ConnectionGroup) (*models.ConnectionGroup, error)
	PromptConnectionFields(key models.GroupKey) (models.ConnectionUpdate, error)
	PromptText(message, def string, required bool) (string, error)
	PromptSecret(message string) (string, error)
	ConfirmRotation(group models.ConnectionGroup) (bool, error)
	IsInteractive() bool
}

// selfUpdater interface for looking up and installing the latest release
type selfUpdater interface {
	UpdateSelf(current semver.Version, slug string) (*selfupdate.Release, error)
	DetectLatest(slug string) (*selfupdate.Release, bool, error)
}
