package main

import (
	"flag"
	"os"

	"github.com/idilsaglam/journal/internal/api"
	"github.com/idilsaglam/journal/internal/auth"
	"github.com/idilsaglam/journal/internal/cli"
	"github.com/idilsaglam/journal/internal/config"
	"github.com/idilsaglam/journal/internal/debuglog"
	"github.com/idilsaglam/journal/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	apiURL := flag.String("api", "", "backend base URL (overrides JOURNAL_API_URL)")
	flag.Parse()

	cfg := config.New()
	if *apiURL != "" {
		cfg.BaseURL = *apiURL
	}

	tokens, err := auth.NewStore()
	if err != nil {
		ui.Fail("credentials: " + err.Error())
		os.Exit(1)
	}

	client := api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Tokens:  tokens,
		Logger:  debuglog.New(cfg.DebugLog),
	})

	// No subcommand opens the journal itself.
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"ls"}
	}

	os.Exit(cli.Run(args, cli.Options{Client: client, Tokens: tokens}))
}
