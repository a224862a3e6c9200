package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aaearon/tabrotate/internal/cache"
	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/credential"
	"github.com/aaearon/tabrotate/internal/tableau"
	"github.com/aaearon/tabrotate/internal/tableau/models"
	"github.com/aaearon/tabrotate/internal/ui"
)

// patSigner looks up the PAT secret only when a real sign-in happens, so a
// cached session never touches the keyring.
type patSigner struct {
	inner   sessionSigner
	secrets secretStore
}

func (p *patSigner) SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error) {
	if req.TokenSecret == "" {
		secret, err := p.secrets.GetSecret(req.TokenName)
		if err != nil {
			return nil, err
		}
		req.TokenSecret = secret
	}
	return p.inner.SignIn(ctx, req)
}

// diskSessionStore adapts the cache package to sessionStore.
type diskSessionStore struct {
	store *cache.Store
}

func (d *diskSessionStore) Load(serverURL, site string) (*models.Session, bool) {
	return cache.LoadSession(d.store, serverURL, site)
}

func (d *diskSessionStore) Save(session *models.Session) error {
	return cache.SaveSession(d.store, session)
}

func (d *diskSessionStore) Clear(serverURL, site string) {
	cache.ClearSession(d.store, serverURL, site)
}

// uiPrompter wraps the ui package to implement the prompter interface
type uiPrompter struct{}

func (uiPrompter) SelectGroup(groups []models.ConnectionGroup) (*models.ConnectionGroup, error) {
	return ui.SelectGroup(groups)
}

func (uiPrompter) PromptConnectionFields(key models.GroupKey) (models.ConnectionUpdate, error) {
	return ui.PromptConnectionFields(key)
}

func (uiPrompter) PromptText(message, def string, required bool) (string, error) {
	return ui.PromptText(message, def, required)
}

func (uiPrompter) PromptSecret(message string) (string, error) {
	return ui.PromptSecret(message)
}

func (uiPrompter) ConfirmRotation(group models.ConnectionGroup) (bool, error) {
	return ui.ConfirmRotation(group)
}

func (uiPrompter) IsInteractive() bool {
	return ui.IsInteractive()
}

// tableauEnv bundles the production dependencies of commands that talk to Tableau.
type tableauEnv struct {
	cfg     *config.Config
	service *tableau.Service
	cache   *cache.Store
	secrets *credential.Service
}

// bootstrapTableau loads the config and builds the Tableau client, session cache and keyring access.
func bootstrapTableau() (*tableauEnv, error) {
	cfg, _, err := config.LoadDefaultWithPath()
	if err != nil {
		return nil, err
	}

	_, profile, err := config.GetProfile(cfg, profileName)
	if err != nil {
		return nil, err
	}

	dir, err := cache.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine cache directory: %w", err)
	}

	return &tableauEnv{
		cfg:     cfg,
		service: tableau.NewService(profile.APIVersion, coreLog),
		cache:   cache.NewStore(dir, config.ParseSessionTTL(cfg)),
		secrets: credential.NewService(),
	}, nil
}

// signer returns a sign-in chain that reuses cached sessions unless refresh is set.
func (e *tableauEnv) signer(refresh bool) sessionSigner {
	return cache.NewCachedSigner(&patSigner{inner: e.service, secrets: e.secrets}, e.cache, refresh, log)
}

func (e *tableauEnv) sessions() sessionStore {
	return &diskSessionStore{store: e.cache}
}

// signInRequest builds the PAT sign-in request for a profile. The secret is
// resolved by patSigner.
func signInRequest(p config.Profile) models.SignInRequest {
	return models.SignInRequest{
		ServerURL: p.Server,
		TokenName: p.TokenName,
		Site:      p.Site,
	}
}

// enumerateGroups enumerates the site and groups its connections. A session
// the server no longer accepts is dropped from the cache.
func enumerateGroups(ctx context.Context, enumerator inventoryEnumerator, store sessionStore, session *models.Session) (*models.Inventory, []models.ConnectionGroup, error) {
	log.Info("Enumerating data sources and workbooks on %s", session.BaseURL)

	inv, err := enumerator.Enumerate(ctx, session)
	if err != nil {
		var enumErr *tableau.EnumerationError
		if errors.As(err, &enumErr) && enumErr.StatusCode == http.StatusUnauthorized {
			store.Clear(session.BaseURL, session.SiteContentURL)
			return nil, nil, fmt.Errorf("session is no longer valid, run 'tabrotate login': %w", err)
		}
		return nil, nil, fmt.Errorf("failed to enumerate connections: %w", err)
	}

	groups := tableau.GroupInventory(inv)
	log.Info("Found %d data sources, %d workbooks, %d connections in %d groups",
		len(inv.DataSources), len(inv.Workbooks), inv.ConnectionCount(), len(groups))

	return inv, groups, nil
}
