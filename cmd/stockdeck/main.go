package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/ksahdev/stockdeck/internal/app"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(&loginCmd{}, "auth")
	commander.Register(&signupCmd{}, "auth")
	commander.Register(&forgotPasswordCmd{}, "auth")
	commander.Register(&updatePasswordCmd{}, "auth")
	commander.Register(&dashboardCmd{}, "dashboard")
	commander.Register(&versionCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// initApp builds the shared core, failing usage when required config
// is missing.
func initApp(configPath string, notify func(string)) (*app.App, error) {
	a, err := app.NewApp(configPath, notify)
	if err != nil {
		return nil, err
	}
	if missing := a.RequireAuthConfig(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %v (set STOCKDECK_AUTH_URL, STOCKDECK_AUTH_ANON_KEY, STOCKDECK_BACKEND_URL or provide stockdeck.toml)", missing)
	}
	return a, nil
}
