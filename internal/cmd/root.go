package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/IPDSnelting/velcom/internal/config"
	"github.com/IPDSnelting/velcom/internal/logger"
	"github.com/IPDSnelting/velcom/internal/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// globalOptions holds the persistent flags of one command tree. Values are
// read through viper so VELCOM_* environment variables apply when a flag is
// not given.
type globalOptions struct {
	v *viper.Viper
}

func (o *globalOptions) configPath() string { return o.v.GetString("config") }
func (o *globalOptions) profile() string    { return o.v.GetString("profile") }
func (o *globalOptions) debug() bool        { return o.v.GetBool("debug") }
func (o *globalOptions) noColor() bool      { return !ui.Colors(o.v.GetBool("no-color")) }

// loadStore reads the configuration selected by --config and --profile.
func (o *globalOptions) loadStore() (*config.Store, error) {
	return config.Load(o.configPath(), o.profile())
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logger.New(cmd.ErrOrStderr(), o.debug())
}

// NewRootCommand creates a fresh command tree. Every call returns an
// independent tree, so tests can execute commands side by side.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{v: viper.New()}

	root := &cobra.Command{
		Use:   "velcom",
		Short: "CLI tool for the velcom benchmarking service",
		Long: `Command-line client for velcom, a continuous benchmarking service.

The velcom CLI packs a local benchmark directory into a tar archive, uploads
it to the benchmark queue and prints links to the resulting task and run.
Server URLs and credentials are read from a profile-based INI file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags (available to all subcommands)
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is ~/.config/velcom/velcom.conf, then ~/.velcom.conf)")
	pf.StringP("profile", "p", "", "profile to use instead of default_profile")
	pf.Bool("debug", false, "enable debug logging")
	pf.Bool("no-color", false, "disable colored output")

	opts.v.SetEnvPrefix("VELCOM")
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.v.AutomaticEnv()
	for _, name := range []string{"config", "profile", "debug", "no-color"} {
		_ = opts.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		newDefaultConfigCmd(),
		newShowConfigCmd(opts),
		newBenchTarCmd(opts),
		newReposCmd(opts),
		newVersionCmd(),
	)

	return root
}

// Execute runs the CLI. It is called by main.main().
func Execute() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.NewLogger().Warn("failed to load .env", logger.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}
