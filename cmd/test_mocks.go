package cmd

import (
	"context"
	"errors"

	"github.com/aaearon/tabrotate/internal/tableau/models"
	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// mockSigner implements the sessionSigner interface for testing
type mockSigner struct {
	signInFunc func(ctx context.Context, req models.SignInRequest) (*models.Session, error)
	session    *models.Session
	signInErr  error
	calls      int
	lastReq    models.SignInRequest
}

func (m *mockSigner) SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error) {
	m.calls++
	m.lastReq = req
	if m.signInFunc != nil {
		return m.signInFunc(ctx, req)
	}
	return m.session, m.signInErr
}

// mockSignerOut implements the sessionSignerOut interface for testing
type mockSignerOut struct {
	signOutErr error
	calls      int
}

func (m *mockSignerOut) SignOut(ctx context.Context, session *models.Session) error {
	m.calls++
	return m.signOutErr
}

// mockEnumerator implements the inventoryEnumerator interface for testing
type mockEnumerator struct {
	enumerateFunc func(ctx context.Context, session *models.Session) (*models.Inventory, error)
	inventory     *models.Inventory
	enumerateErr  error
}

func (m *mockEnumerator) Enumerate(ctx context.Context, session *models.Session) (*models.Inventory, error) {
	if m.enumerateFunc != nil {
		return m.enumerateFunc(ctx, session)
	}
	return m.inventory, m.enumerateErr
}

// mockUpdater implements the groupUpdater interface for testing
type mockUpdater struct {
	updateFunc func(ctx context.Context, session *models.Session, group models.ConnectionGroup, update models.ConnectionUpdate) []models.UpdateOutcome
	calls      int
	lastGroup  models.ConnectionGroup
	lastUpdate models.ConnectionUpdate
}

func (m *mockUpdater) UpdateGroup(ctx context.Context, session *models.Session, group models.ConnectionGroup, update models.ConnectionUpdate) []models.UpdateOutcome {
	m.calls++
	m.lastGroup = group
	m.lastUpdate = update
	if m.updateFunc != nil {
		return m.updateFunc(ctx, session, group, update)
	}
	outcomes := make([]models.UpdateOutcome, 0, len(group.Members))
	for _, c := range group.Members {
		outcomes = append(outcomes, models.UpdateOutcome{
			ParentID:     c.ParentID,
			ParentName:   c.ParentName,
			ParentType:   c.ParentType,
			ConnectionID: c.ID,
			Success:      true,
		})
	}
	return outcomes
}

// mockSecretStore implements the secretStore interface for testing
type mockSecretStore struct {
	secrets   map[string]string
	setErr    error
	deleteErr error
	deleted   []string
}

func newMockSecretStore() *mockSecretStore {
	return &mockSecretStore{secrets: make(map[string]string)}
}

func (m *mockSecretStore) GetSecret(tokenName string) (string, error) {
	s, ok := m.secrets[tokenName]
	if !ok {
		return "", errors.New("secret not found")
	}
	return s, nil
}

func (m *mockSecretStore) SetSecret(tokenName, secret string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.secrets[tokenName] = secret
	return nil
}

func (m *mockSecretStore) DeleteSecret(tokenName string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, tokenName)
	delete(m.secrets, tokenName)
	return nil
}

// mockSessionStore implements the sessionStore interface for testing
type mockSessionStore struct {
	session *models.Session
	saved   []*models.Session
	cleared int
}

func (m *mockSessionStore) Load(serverURL, site string) (*models.Session, bool) {
	if m.session == nil {
		return nil, false
	}
	return m.session, true
}

func (m *mockSessionStore) Save(session *models.Session) error {
	m.saved = append(m.saved, session)
	m.session = session
	return nil
}

func (m *mockSessionStore) Clear(serverURL, site string) {
	m.cleared++
	m.session = nil
}

// mockPrompter implements the prompter interface for testing
type mockPrompter struct {
	interactive bool

	selectFunc func(groups []models.ConnectionGroup) (*models.ConnectionGroup, error)
	fields     models.ConnectionUpdate
	fieldsErr  error
	texts      map[string]string
	secret     string
	secretErr  error
	confirm    bool
	confirmErr error

	selectCalls  int
	confirmCalls int
}

func (m *mockPrompter) SelectGroup(groups []models.ConnectionGroup) (*models.ConnectionGroup, error) {
	m.selectCalls++
	if m.selectFunc != nil {
		return m.selectFunc(groups)
	}
	return &groups[0], nil
}

func (m *mockPrompter) PromptConnectionFields(key models.GroupKey) (models.ConnectionUpdate, error) {
	return m.fields, m.fieldsErr
}

func (m *mockPrompter) PromptText(message, def string, required bool) (string, error) {
	if v, ok := m.texts[message]; ok {
		return v, nil
	}
	return def, nil
}

func (m *mockPrompter) PromptSecret(message string) (string, error) {
	return m.secret, m.secretErr
}

func (m *mockPrompter) ConfirmRotation(group models.ConnectionGroup) (bool, error) {
	m.confirmCalls++
	return m.confirm, m.confirmErr
}

func (m *mockPrompter) IsInteractive() bool {
	return m.interactive
}

// mockSelfUpdater implements the selfUpdater interface for testing
type mockSelfUpdater struct {
	updateSelfFn func(current semver.Version, slug string) (*selfupdate.Release, error)
	release      *selfupdate.Release
	updateErr    error
	latest       *selfupdate.Release
	detectErr    error
	detectCalls  int
	updateCalls  int
}

func (m *mockSelfUpdater) UpdateSelf(current semver.Version, slug string) (*selfupdate.Release, error) {
	m.updateCalls++
	if m.updateSelfFn != nil {
		return m.updateSelfFn(current, slug)
	}
	return m.release, m.updateErr
}

func (m *mockSelfUpdater) DetectLatest(slug string) (*selfupdate.Release, bool, error) {
	m.detectCalls++
	return m.latest, m.latest != nil, m.detectErr
}
