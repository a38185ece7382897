package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/reporter/pkg/runtime/terminal/commands"
	"github.com/de-tools/reporter/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// SetupFunc builds the command environment from the config file at configPath
type SetupFunc func(ctx context.Context, configPath string) (*commands.Environment, error)

// CLI represents the command-line interface
type CLI struct {
	setup      SetupFunc
	env        *commands.Environment
	reporter   *export.Reporter
	errOutput  io.Writer
	configPath string
	logLevel   string
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Setup     SetupFunc
	Output    io.Writer
	ErrOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	cli := &CLI{
		setup:     opts.Setup,
		reporter:  export.NewReporter(opts.Output),
		errOutput: opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	cli.rootCmd.SetErr(opts.ErrOutput)
	return cli
}

// Execute runs the command tree and releases the environment afterwards,
// also when the command failed
func (cli *CLI) Execute(ctx context.Context) error {
	err := cli.rootCmd.ExecuteContext(ctx)
	if cli.env != nil && cli.env.Close != nil {
		if closeErr := cli.env.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		cli.env = nil
	}
	return err
}

// SetArgs overrides the command-line arguments, mainly for tests
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "reporter",
		Short:             "Periodic CSV report runner",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.before,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "",
		"Path to the config file (default is $XDG_CONFIG_HOME/reporter/config.yaml)")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(commands.NewReportCmd(func() *commands.Environment { return cli.env }, cli.reporter))

	return cmd
}

func (cli *CLI) before(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cli.logLevel)
	if err != nil {
		return commands.NewUsageError(fmt.Sprintf("invalid log level %q", cli.logLevel))
	}

	logger := zerolog.New(cli.errOutput).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	env, err := cli.setup(ctx, cli.configPath)
	if err != nil {
		return fmt.Errorf("failed to set up environment: %w", err)
	}
	cli.env = env
	return nil
}
