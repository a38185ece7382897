package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/de-tools/reporter/pkg/runtime/bootstrap"
	"github.com/de-tools/reporter/pkg/runtime/terminal"
	"github.com/de-tools/reporter/pkg/runtime/terminal/commands"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Setup:     bootstrap.Setup,
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	})

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var usageErr *commands.UsageError
		if errors.As(err, &usageErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
