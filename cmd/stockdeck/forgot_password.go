package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ksahdev/stockdeck/internal/app"
	"github.com/ksahdev/stockdeck/internal/forms"
)

type forgotPasswordCmd struct {
	config string
	email  string
}

func (*forgotPasswordCmd) Name() string     { return "forgot-password" }
func (*forgotPasswordCmd) Synopsis() string { return "request a password reset email" }
func (*forgotPasswordCmd) Usage() string {
	return `stockdeck forgot-password [-email <address>]

  Requests a password reset email. The response is the same whether or
  not an account exists for the address.
`
}

func (c *forgotPasswordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to stockdeck.toml")
	f.StringVar(&c.email, "email", "", "account email address")
}

func (c *forgotPasswordCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := initApp(c.config, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	reader := bufio.NewReader(os.Stdin)
	email := c.email
	if email == "" {
		email = promptLine(reader, "Email")
	}
	if errs := forms.ValidateEmail(email); !errs.Valid() {
		printFieldErrors(errs)
		return subcommands.ExitUsageError
	}

	cooldown := a.Config.Auth.GetResetCooldown()
	lastSent := c.send(ctx, a, email)

	for {
		fmt.Printf("Press r to resend, or Enter to exit: ")
		line, _ := reader.ReadString('\n')
		if len(line) == 0 || line[0] != 'r' {
			return subcommands.ExitSuccess
		}
		if wait := cooldown - time.Since(lastSent); wait > 0 {
			fmt.Printf("Please wait %d seconds before resending.\n", int(wait.Seconds())+1)
			continue
		}
		lastSent = c.send(ctx, a, email)
	}
}

func (c *forgotPasswordCmd) send(ctx context.Context, a *app.App, email string) time.Time {
	a.Auth.RequestPasswordReset(ctx, email)
	fmt.Println("If an account exists for that address, a reset email is on its way.")
	return time.Now()
}
