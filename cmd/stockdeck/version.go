package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ksahdev/stockdeck/internal/common"
)

type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print the stockdeck version" }
func (*versionCmd) Usage() string            { return "stockdeck version\n" }
func (*versionCmd) SetFlags(f *flag.FlagSet) {}

func (c *versionCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	fmt.Printf("stockdeck %s\n", common.GetFullVersion())
	return subcommands.ExitSuccess
}
