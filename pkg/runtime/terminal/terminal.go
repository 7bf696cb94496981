package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/config"
	"github.com/de-tools/ledger-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/ledger-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/ledger-atlas/pkg/services/analysis"
	profiles "github.com/de-tools/ledger-atlas/pkg/services/config"
	"github.com/de-tools/ledger-atlas/pkg/services/source"
)

// CLI represents the command-line interface
type CLI struct {
	opts    Options
	rootCmd *cobra.Command

	configPath   string
	profilesPath string
	output       string
	timeout      time.Duration
	verbose      bool
	env          *commands.Env
	cancel       context.CancelFunc
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Opener connects to SQL ledgers; nil uses Postgres.
	Opener source.Opener
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{opts: opts, env: &commands.Env{}}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	cli.rootCmd.SetOut(cli.opts.Output)
	defer cli.cleanup()
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) cleanup() {
	if cli.cancel != nil {
		cli.cancel()
		cli.cancel = nil
	}
	if cli.env.Resolver != nil {
		_ = cli.env.Resolver.Close()
	}
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	defaultProfiles, _ := profiles.DefaultPath()

	cmd := &cobra.Command{
		Use:               "ledger",
		Short:             "Ledger deviation, trend and forecast analysis",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the analysis config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&cli.profilesPath, "profiles", defaultProfiles, "Path to the ledger connection profiles (default is $HOME/.ledgercfg)")
	cmd.PersistentFlags().StringVarP(&cli.output, "output", "o", string(export.FormatText), "Output format: text, json or yaml")
	cmd.PersistentFlags().DurationVar(&cli.timeout, "timeout", 60*time.Second, "Maximum duration of the command")
	cmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Log debug information to stderr")

	cmd.AddCommand(commands.NewDeviationsCmd(cli.env))
	cmd.AddCommand(commands.NewTrendsCmd(cli.env))
	cmd.AddCommand(commands.NewForecastCmd(cli.env))
	cmd.AddCommand(commands.NewProfilesCmd(cli.env))
	cmd.AddCommand(commands.NewImportCmd(cli.env))

	return cmd
}

// setup loads configuration and builds the shared dependencies for the
// selected command.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	level := zerolog.WarnLevel
	if cli.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(cmd.ErrOrStderr()).Level(level).With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx)
	if cli.timeout > 0 {
		ctx, cli.cancel = context.WithTimeout(ctx, cli.timeout)
	}
	cmd.SetContext(ctx)

	format, err := export.ParseFormat(cli.output)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctrl, err := analysis.NewController(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create analysis controller: %w", err)
	}

	var registry profiles.Registry
	if _, statErr := os.Stat(cli.profilesPath); statErr == nil {
		if registry, err = profiles.NewRegistry(cli.profilesPath); err != nil {
			return err
		}
	} else {
		logger.Debug().Str("path", cli.profilesPath).Msg("no profiles file, only booking files can be used")
	}

	cli.env.Service = ctrl
	cli.env.Profiles = registry
	cli.env.Resolver = source.NewResolver(registry, cli.opts.Opener)
	cli.env.Reporter = export.NewReporter(cmd.OutOrStdout(), format)
	return nil
}
