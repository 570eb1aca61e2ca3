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

type signupCmd struct {
	config string
	show   bool
}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create a new account" }
func (*signupCmd) Usage() string {
	return `stockdeck signup

  Creates an account from interactive prompts. Depending on the
  provider's settings you may need to confirm your email address
  before the first login.
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to stockdeck.toml")
	f.BoolVar(&c.show, "show-password", false, "echo the password while typing")
}

func (c *signupCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := initApp(c.config, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	reader := bufio.NewReader(os.Stdin)
	firstName := promptLine(reader, "First name")
	lastName := promptLine(reader, "Last name")
	email := promptLine(reader, "Email")
	password := promptPassword(reader, "Password", c.show)
	confirm := promptPassword(reader, "Confirm password", c.show)

	if errs := forms.ValidateSignUp(firstName, lastName, email, password, confirm); !errs.Valid() {
		printFieldErrors(errs)
		return subcommands.ExitUsageError
	}

	result := a.Auth.SignUp(ctx, email, password, firstName, lastName)
	if !result.OK() {
		fmt.Fprintln(os.Stderr, result.Error)
		return subcommands.ExitFailure
	}

	if result.Data.Valid() {
		fmt.Println("Account created and signed in.")
		fmt.Println("Run `stockdeck dashboard` to get started.")
	} else {
		fmt.Println("Account created. Check your email to confirm your address, then log in.")
	}
	return subcommands.ExitSuccess
}
