package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/config"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()
	Version = "1.2.3"
	GitCommit = "abc123"

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	require.Contains(t, buf.String(), "Version:    1.2.3")
	require.Contains(t, buf.String(), "Git commit: abc123")
}

func TestRootAcceptsServeFlags(t *testing.T) {
	origHost, origPort := serverHost, serverPort
	defer func() { serverHost, serverPort = origHost, origPort }()

	require.NoError(t, rootCmd.ParseFlags([]string{"--port", "8080", "--host", "127.0.0.1"}))
	require.Equal(t, 8080, serverPort)
	require.Equal(t, "127.0.0.1", serverHost)

	require.NoError(t, serveCmd.ParseFlags([]string{"--port", "9090"}))
	require.Equal(t, 9090, serverPort)
}

func TestMigrateURL(t *testing.T) {
	origURL, origEnvFile := migrateDatabaseURL, envFile
	defer func() { migrateDatabaseURL, envFile = origURL, origEnvFile }()
	envFile = ""

	migrateDatabaseURL = "postgres://flag"
	url, err := migrateURL()
	require.NoError(t, err)
	require.Equal(t, "postgres://flag", url)

	migrateDatabaseURL = ""
	t.Setenv("DATABASE_URL", "postgres://env")
	url, err = migrateURL()
	require.NoError(t, err)
	require.Equal(t, "postgres://env", url)

	t.Setenv("DATABASE_URL", "")
	_, err = migrateURL()
	require.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	cfg := config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
	store, err := openStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &memory.Store{}, store)

	cfg.Store.Driver = "sqlite"
	_, err = openStore(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestNewRouterServesAPI(t *testing.T) {
	cfg := config.Config{
		Auth: config.AuthConfig{JWTSecret: "secret", JWTExpiry: time.Hour, BcryptCost: 10},
	}
	router := newRouter(cfg, memory.NewStore(), zerolog.Nop())

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/free-endpoint", nil))
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth-endpoint", nil))
	require.Equal(t, http.StatusUnauthorized, res.Code)
}
