package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ksahdev/stockdeck/internal/forms"
)

type loginCmd struct {
	config string
	email  string
	oauth  string
	show   bool
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in with email and password, or start an OAuth flow" }
func (*loginCmd) Usage() string {
	return `stockdeck login [-email <address>] [-oauth <provider>]

  Signs in with email/password credentials. With -oauth, prints the
  provider authorize URL to open in a browser instead.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to stockdeck.toml")
	f.StringVar(&c.email, "email", "", "account email address")
	f.StringVar(&c.oauth, "oauth", "", "OAuth provider (e.g. google)")
	f.BoolVar(&c.show, "show-password", false, "echo the password while typing")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := initApp(c.config, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if c.oauth != "" {
		result := a.Auth.LogInWithOAuth(c.oauth)
		if !result.OK() {
			fmt.Fprintln(os.Stderr, result.Error)
			return subcommands.ExitFailure
		}
		fmt.Println("Open this URL in your browser to continue:")
		fmt.Println(result.Data)
		return subcommands.ExitSuccess
	}

	reader := bufio.NewReader(os.Stdin)
	email := c.email
	if email == "" {
		email = promptLine(reader, "Email")
	}
	password := promptPassword(reader, "Password", c.show)

	if errs := forms.ValidateLogIn(email, password); !errs.Valid() {
		printFieldErrors(errs)
		return subcommands.ExitUsageError
	}

	result := a.Auth.LogIn(ctx, email, password)
	if !result.OK() {
		fmt.Fprintln(os.Stderr, result.Error)
		return subcommands.ExitFailure
	}

	user := result.Data.User
	name := user.FullName
	if name == "" {
		name = user.Email
	}
	fmt.Printf("Welcome back, %s.\n", name)
	fmt.Println("Run `stockdeck dashboard` to view your portfolio.")
	return subcommands.ExitSuccess
}
