package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/ksahdev/stockdeck/internal/app"
	"github.com/ksahdev/stockdeck/internal/dashboard"
	"github.com/ksahdev/stockdeck/internal/forms"
)

type dashboardCmd struct {
	config string
	email  string
	show   bool
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "open the interactive portfolio dashboard" }
func (*dashboardCmd) Usage() string {
	return `stockdeck dashboard [-email <address>]

  Signs in if needed, then opens the interactive dashboard. Type h at
  the prompt for the list of commands.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "path to stockdeck.toml")
	f.StringVar(&c.email, "email", "", "account email address")
	f.BoolVar(&c.show, "show-password", false, "echo the password while typing")
}

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	screen := newTermScreen(os.Stdout)
	a, err := initApp(c.config, func(msg string) {
		fmt.Fprintf(os.Stderr, "✖ %s\n", msg)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	reader := bufio.NewReader(os.Stdin)
	if a.Auth.GetCurrentUser() == nil {
		if !c.logIn(ctx, a, reader) {
			return subcommands.ExitFailure
		}
	}

	ctrl, err := dashboard.NewController(a.Config.Dashboard, a.API, a.Auth, screen, a.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer ctrl.Close()

	if err := ctrl.Init(ctx); err != nil {
		return subcommands.ExitFailure
	}

	c.printHelp()
	for {
		select {
		case <-screen.signedOut:
			return subcommands.ExitSuccess
		default:
		}

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return subcommands.ExitSuccess
		}
		if c.handle(ctx, ctrl, a, reader, strings.TrimSpace(line)) {
			return subcommands.ExitSuccess
		}
	}
}

// logIn runs the interactive login guard, allowing three attempts.
func (c *dashboardCmd) logIn(ctx context.Context, a *app.App, reader *bufio.Reader) bool {
	for attempt := 0; attempt < 3; attempt++ {
		email := c.email
		if email == "" {
			email = promptLine(reader, "Email")
		}
		password := promptPassword(reader, "Password", c.show)

		if errs := forms.ValidateLogIn(email, password); !errs.Valid() {
			printFieldErrors(errs)
			continue
		}
		result := a.Auth.LogIn(ctx, email, password)
		if result.OK() {
			return true
		}
		fmt.Fprintln(os.Stderr, result.Error)
	}
	fmt.Fprintln(os.Stderr, "Too many failed attempts.")
	return false
}

// handle runs one dashboard command. Returns true to quit.
func (c *dashboardCmd) handle(ctx context.Context, ctrl *dashboard.Controller, a *app.App, reader *bufio.Reader, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "q", "quit", "exit":
		return true
	case "", "h", "help":
		c.printHelp()
	case "r":
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionRefreshMarket})
	case "n":
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionLoadMoreNews})
	case "p":
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionShowPortfolios})
	case "o":
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionOpenPortfolio, ID: rest})
	case "c":
		name, description, _ := strings.Cut(rest, "|")
		ctrl.Dispatch(ctx, dashboard.Action{
			Kind:        dashboard.ActionCreatePortfolio,
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(description),
		})
	case "d":
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionRequestDeletePortfolio, ID: rest})
		if promptLine(reader, "Delete this portfolio and all its holdings? (y/N)") == "y" {
			ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionConfirmDelete})
		} else {
			ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionEscape})
		}
	case "x":
		if promptLine(reader, "Remove this holding? (y/N)") == "y" {
			ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionDeleteHolding, ID: rest})
		}
	case "s":
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionSearchInput, Query: rest})
		time.Sleep(a.Config.Dashboard.GetDebounceDelay() + 100*time.Millisecond)
	case "a":
		c.addStock(ctx, ctrl, a, reader, rest)
	case "logout":
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionSignOut})
		return true
	default:
		fmt.Println("Unknown command. Type h for help.")
	}
	return false
}

// addStock walks the stock-selection flow for a portfolio.
func (c *dashboardCmd) addStock(ctx context.Context, ctrl *dashboard.Controller, a *app.App, reader *bufio.Reader, portfolioID string) {
	if portfolioID == "" {
		fmt.Println("Usage: a <portfolio-id>")
		return
	}
	ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionOpenStockModal, ID: portfolioID})

	query := promptLine(reader, "Search stocks")
	ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionSearchInput, Query: query})
	time.Sleep(a.Config.Dashboard.GetDebounceDelay() + 100*time.Millisecond)

	symbol := promptLine(reader, "Symbol to add (blank to cancel)")
	if symbol == "" {
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionEscape})
		return
	}
	ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionSelectStock, Symbol: strings.ToUpper(symbol)})

	quantity, err1 := strconv.ParseFloat(promptLine(reader, "Quantity"), 64)
	price, err2 := strconv.ParseFloat(promptLine(reader, "Purchase price"), 64)
	if err1 != nil || err2 != nil {
		fmt.Println("Quantity and purchase price must be numbers.")
		ctrl.Dispatch(ctx, dashboard.Action{Kind: dashboard.ActionEscape})
		return
	}

	ctrl.Dispatch(ctx, dashboard.Action{
		Kind:     dashboard.ActionSubmitHolding,
		Quantity: quantity,
		Price:    price,
	})
}

func (c *dashboardCmd) printHelp() {
	fmt.Print(`Commands:
  r               refresh market data
  n               load more news
  p               show portfolios
  o <id>          open a portfolio
  c <name>[|desc] create a portfolio
  d <id>          delete a portfolio (asks to confirm)
  a <id>          add a stock to a portfolio
  x <holding-id>  remove a holding (asks to confirm)
  s <query>       search stocks
  logout          sign out and exit
  q               quit
`)
}
