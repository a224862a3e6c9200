package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/tableau/models"
	"github.com/spf13/cobra"
)

// newTestRootCommand creates a bare root command for registering subcommands in tests
func newTestRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

// executeCommand executes a command and returns its output
func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// resetGlobals restores the package-level flag values after a test
func resetGlobals(t *testing.T) {
	t.Helper()
	oldProfile, oldOutput, oldVerbose := profileName, outputFormat, verbose
	profileName, outputFormat = "", "text"
	t.Cleanup(func() {
		profileName, outputFormat, verbose = oldProfile, oldOutput, oldVerbose
	})
}

// useTempConfig points TABROTATE_CONFIG at a fresh file and returns its path
func useTempConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("TABROTATE_CONFIG", path)
	if cfg != nil {
		if err := config.Save(cfg, path); err != nil {
			t.Fatalf("failed to save test config: %v", err)
		}
	}
	return path
}

// testConfig returns a config with a single default profile
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Profiles["default"] = config.Profile{
		Server:    "https://tableau.example.com",
		Site:      "finance",
		TokenName: "rotation-bot",
	}
	return cfg
}

func testSession() *models.Session {
	return &models.Session{
		BaseURL:        "https://tableau.example.com",
		APIVersion:     "3.21",
		Token:          "session-token",
		SiteID:         "site-1",
		SiteContentURL: "finance",
		UserID:         "user-1",
	}
}

func conn(id string, parentType models.ParentType, parentID, parentName, server, port, user string) models.Connection {
	return models.Connection{
		ID:            id,
		Type:          "postgres",
		ServerAddress: server,
		ServerPort:    port,
		UserName:      user,
		ParentID:      parentID,
		ParentType:    parentType,
		ParentName:    parentName,
	}
}

// testInventory has two groups: db1:5432/svc (one data source, one workbook)
// and db2:5432/report (one data source).
func testInventory() *models.Inventory {
	return &models.Inventory{
		DataSources: []models.Asset{
			{ID: "ds-1", Name: "Sales", Connections: []models.Connection{
				conn("c1", models.ParentDataSource, "ds-1", "Sales", "db1.example.com", "5432", "svc"),
			}},
			{ID: "ds-2", Name: "Finance", Connections: []models.Connection{
				conn("c2", models.ParentDataSource, "ds-2", "Finance", "db2.example.com", "5432", "report"),
			}},
		},
		Workbooks: []models.Asset{
			{ID: "wb-1", Name: "Quarterly", Connections: []models.Connection{
				conn("c3", models.ParentWorkbook, "wb-1", "Quarterly", "db1.example.com", "5432", "svc"),
			}},
		},
	}
}
