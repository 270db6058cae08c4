package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/briefing/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const seedFile = "../../ingest/testdata/seed.yaml"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"briefing"}, args...))
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	newLoggerApp := func(action cli.ActionFunc) *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: action,
		}
	}
	noop := func(c *cli.Context) error { return nil }

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newLoggerApp(noop).Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newLoggerApp(noop).Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newLoggerApp(func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}).Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})

	t.Run("LOG_LEVEL environment", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "nonsense")
		_, err := runApp(t, "products")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("values do not override the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("BRIEFING_TEST_A=file\nBRIEFING_TEST_B=file\n"), 0o600))
		t.Setenv("BRIEFING_TEST_A", "env")
		t.Cleanup(func() { _ = os.Unsetenv("BRIEFING_TEST_B") })

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "env", os.Getenv("BRIEFING_TEST_A"))
		assert.Equal(t, "file", os.Getenv("BRIEFING_TEST_B"))
	})
}

func TestClamp(t *testing.T) {
	assert.Equal(t, minLearnTimeoutMs, clampInt(10, minLearnTimeoutMs, maxLearnTimeoutMs))
	assert.Equal(t, maxLearnTimeoutMs, clampInt(999999, minLearnTimeoutMs, maxLearnTimeoutMs))
	assert.Equal(t, 2500, clampInt(2500, minLearnTimeoutMs, maxLearnTimeoutMs))
	assert.Equal(t, 1.0, clampFloat(1.7, 0, 1))
	assert.Equal(t, 0.0, clampFloat(-0.2, 0, 1))
	assert.Equal(t, 0.7, clampFloat(0.7, 0, 1))
}

func TestProductsCommand(t *testing.T) {
	out, err := runApp(t, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "m365-teams")
	assert.Contains(t, out, "Microsoft Teams")

	out, err = runApp(t, "products", "--json")
	require.NoError(t, err)
	var products []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	assert.NotEmpty(t, products)
}

func TestImportAndSearchCommands(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	db := filepath.Join(t.TempDir(), "db")

	out, err := runApp(t, "import", "--db", db, seedFile)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 records (1 invalid)")

	out, err = runApp(t, "import", "--db", db, seedFile)
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged, skipped")

	out, err = runApp(t, "search", "--db", db, "--learn=false", "--live=false", "--json", "--locale", "en", "Teams", "updates")
	require.NoError(t, err)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Teams updates", result.Query)
	require.NotEmpty(t, result.Updates)
	assert.Equal(t, "m365-teams", result.Updates[0].Product)

	out, err = runApp(t, "search", "--db", db, "--learn=false", "--live=false", "Teams")
	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "QueryAgent")
}

func TestCommandErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")

	_, err := runApp(t, "search", "--db", db, "--learn=false")
	assert.Error(t, err, "query is required")

	_, err = runApp(t, "search", "--db", db, "--learn=false", "--period", "2y", "Teams")
	assert.Error(t, err)

	_, err = runApp(t, "import", "--db", db)
	assert.Error(t, err)
}

func TestReindexCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")

	_, err := runApp(t, "import", "--db", db, seedFile)
	require.NoError(t, err)

	out, err := runApp(t, "reindex", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Records: 3, updated: 0")

	_, err = runApp(t, "reindex", "--db", db, "--batch-size", "0")
	assert.Error(t, err)
}
