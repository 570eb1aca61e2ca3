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

type updatePasswordCmd struct {
	config   string
	callback string
	show     bool
}

func (*updatePasswordCmd) Name() string     { return "update-password" }
func (*updatePasswordCmd) Synopsis() string { return "set a new password from a reset link" }
func (*updatePasswordCmd) Usage() string {
	return `stockdeck update-password [-callback <url>]

  Completes a password reset. Paste the full link from the reset email;
  without a valid recovery link this command refuses to run.
`
}

func (c *updatePasswordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to stockdeck.toml")
	f.StringVar(&c.callback, "callback", "", "reset link from the email")
	f.BoolVar(&c.show, "show-password", false, "echo the password while typing")
}

func (c *updatePasswordCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := initApp(c.config, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	reader := bufio.NewReader(os.Stdin)
	callback := c.callback
	if callback == "" {
		callback = promptLine(reader, "Paste the reset link from your email")
	}

	result := a.Auth.ConsumePasswordResetCallback(ctx, callback)
	if !result.IsPasswordReset {
		fmt.Fprintln(os.Stderr, "That link is not a valid password reset link. Request a new one with `stockdeck forgot-password`.")
		return subcommands.ExitFailure
	}

	password := promptPassword(reader, "New password", c.show)
	confirm := promptPassword(reader, "Confirm new password", c.show)
	if errs := forms.ValidateNewPassword(password, confirm); !errs.Valid() {
		printFieldErrors(errs)
		return subcommands.ExitUsageError
	}

	if _, err := a.Auth.UpdatePassword(ctx, password); err != nil {
		fmt.Fprintf(os.Stderr, "Could not update password: %v\n", err)
		return subcommands.ExitFailure
	}

	a.Auth.SignOut(ctx)
	fmt.Println("Password updated. Log in with your new password.")
	return subcommands.ExitSuccess
}
