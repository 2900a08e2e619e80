package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestContext(t *testing.T, logLevel string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", logLevel, "")
	require.NoError(t, set.Set("log-level", logLevel))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO", "Debug"} {
			assert.NoError(t, setupLogger(newTestContext(t, level)), "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newTestContext(t, "verbose"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestFeedCommandRequiresSource(t *testing.T) {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "feed",
				Action: feedCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "images"},
					&cli.StringFlag{Name: "file"},
				),
			},
		},
	}

	err := app.Run([]string{"imagesearch", "feed",
		"--db", t.TempDir(), "--model", "model.onnx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--images or --file")
}
