package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Read("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "wealthflow.db", cfg.SQLite.Path)
	assert.Equal(t, "USD", cfg.Finance.Currency)
	assert.True(t, cfg.Finance.OpeningBalance.IsZero())
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=wealthflow sslmode=disable",
		cfg.Postgres.ConnectionString())
}

func TestRead_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  address: ":9090"
finance:
  currency: EUR
  opening_balance: "15000.50"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("WEALTHFLOW_SERVER_API_TOKEN", "from-env")
	t.Setenv("WEALTHFLOW_POSTGRES_DSN", "postgres://u:p@db/wf")

	cfg, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "from-env", cfg.Server.APIToken)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "EUR", cfg.Finance.Currency)
	assert.True(t, cfg.Finance.OpeningBalance.Equal(decimal.RequireFromString("15000.50")))
	assert.Equal(t, "postgres://u:p@db/wf", cfg.Postgres.ConnectionString())
}

func TestRead_Invalid(t *testing.T) {
	t.Run("Missing explicit file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("Unknown currency", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("WEALTHFLOW_FINANCE_CURRENCY", "ZZZ")
		_, err := Read("")
		assert.ErrorContains(t, err, "unknown currency")
	})

	t.Run("Bad opening balance", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("WEALTHFLOW_FINANCE_OPENING_BALANCE", "lots")
		_, err := Read("")
		assert.ErrorContains(t, err, "invalid finance.opening_balance")
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
