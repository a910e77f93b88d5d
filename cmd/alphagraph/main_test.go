package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/alphagraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func testApp(out io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestIndexCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(), "index")

	defaults := map[string]any{}
	for _, flag := range cmd.Flags {
		switch f := flag.(type) {
		case *cli.StringFlag:
			defaults[f.Name] = f.Value
		case *cli.IntFlag:
			defaults[f.Name] = f.Value
		case *cli.DurationFlag:
			defaults[f.Name] = f.Value
		case *cli.BoolFlag:
			defaults[f.Name] = f.Value
		}
	}

	assert.Equal(t, "./data", defaults["data-dir"])
	assert.Equal(t, "./index", defaults["index-dir"])
	assert.Equal(t, "config.yaml", defaults["config"])
	assert.Equal(t, 32, defaults["batch-size"])
	assert.Equal(t, 3, defaults["max-retries"])
	assert.Equal(t, 1*time.Second, defaults["retry-delay"])
	assert.Equal(t, false, defaults["no-cache"])
}

func TestIndexCommandValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"zero batch size", []string{"--batch-size", "0"}, "batch-size must be greater than 0"},
		{"zero pool size", []string{"--pool-size", "0"}, "pool-size must be greater than 0"},
		{"zero report interval", []string{"--report-interval", "0"}, "report-interval must be greater than 0"},
		{"zero retries", []string{"--max-retries", "0"}, "max-retries must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"alphagraph", "index"}, tt.args...)
			err := testApp(io.Discard).Run(args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIndexCommandMissingDataDir(t *testing.T) {
	dir := t.TempDir()
	err := testApp(io.Discard).Run([]string{"alphagraph", "index",
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", filepath.Join(dir, "missing"),
		"--index-dir", filepath.Join(dir, "index"),
		"--no-cache",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexing failed")
}

func TestIndexCommandBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk: {size: 10, overlap: 20}\n"), 0644))

	err := testApp(io.Discard).Run([]string{"alphagraph", "index", "--config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestQueryCommand(t *testing.T) {
	t.Run("query text is required", func(t *testing.T) {
		err := testApp(io.Discard).Run([]string{"alphagraph", "query"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query text is required")
	})

	t.Run("missing index", func(t *testing.T) {
		dir := t.TempDir()
		err := testApp(io.Discard).Run([]string{"alphagraph", "query",
			"--config", filepath.Join(dir, "config.yaml"),
			"--index-dir", filepath.Join(dir, "index"),
			"AAPL", "earnings",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrIndexNotFound)
	})

	t.Run("invalid summary mode", func(t *testing.T) {
		dir := t.TempDir()
		err := testApp(io.Discard).Run([]string{"alphagraph", "query",
			"--config", filepath.Join(dir, "config.yaml"),
			"--summary-mode", "abstractive",
			"AAPL",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown summary mode")
	})
}

func TestPrintState(t *testing.T) {
	state := &core.PipelineState{
		Plan: "Search for information about: AAPL earnings",
		Docs: []core.ScoredResult{
			{Text: "AAPL beat\nestimates", Score: 0.91234, Metadata: map[string]string{core.MetadataSource: "data/aapl.txt"}},
			{Text: strings.Repeat("x", 200), Score: 0.5},
		},
		Summary: "AAPL beat estimates",
		Signals: []core.Signal{
			{Ticker: "AAPL", Sentiment: 0.87, Evidence: "AAPL beat estimates"},
			{Ticker: "TSLA", Sentiment: -0.4, Evidence: "TSLA missed"},
		},
	}

	var buf bytes.Buffer
	printState(&buf, state)
	out := buf.String()

	assert.Contains(t, out, "\nPlan: Search for information about: AAPL earnings\n")
	assert.Contains(t, out, "\nTop Docs:\n")
	assert.Contains(t, out, " 1 score=0.912 src=data/aapl.txt\n AAPL beat estimates\n")
	assert.Contains(t, out, " 2 score=0.500 src=-\n "+strings.Repeat("x", 180)+"...\n")
	assert.Contains(t, out, "\nSummary:\n AAPL beat estimates\n")
	assert.Contains(t, out, "- AAPL: bullish (+0.87)\n  evidence: AAPL beat estimates\n")
	assert.Contains(t, out, "- TSLA: bearish (-0.40)\n  evidence: TSLA missed\n")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview("a\nb"))
	assert.Equal(t, strings.Repeat("é", 180), preview(strings.Repeat("é", 180)))
	assert.Equal(t, strings.Repeat("é", 180)+"...", preview(strings.Repeat("é", 181)))
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
		for _, tc := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			t.Run(tc, func(t *testing.T) {
				err := newLoggerApp(noop).Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
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
}
