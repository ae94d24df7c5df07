package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/armadaproject/fastinsert/internal/common"
	commonconfig "github.com/armadaproject/fastinsert/internal/common/config"
	"github.com/armadaproject/fastinsert/internal/fastinsertctl"
)

const (
	CustomConfigLocation = "config"
	DefaultConfigPath    = "./config/fastinsert"
	HomeConfigFile       = ".fastinsert.yaml"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fastinsert",
		Short: "fastinsert bulk-loads rows into a SQL table using multi-row INSERT statements.",
		Long: `fastinsert bulk-loads rows into a SQL table using multi-row INSERT statements.

Requests are YAML files naming the table, the columns shared by every row and the
per-row values. Database connection details are read from config.yaml in ./config/fastinsert,
optionally overridden by files passed with --config (or $HOME/.fastinsert.yaml if none are)
and by FASTINSERT_* environment variables.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSlice(
		CustomConfigLocation,
		[]string{},
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)",
	)
	cmd.PersistentFlags().Int("groupSize", 0, "Rows per INSERT for requests that don't specify a group size")
	cmd.PersistentFlags().String("driver", "", "Database driver: pgx, pq or sqlite")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log every group")

	cmd.AddCommand(
		runCmd(fastinsertctl.New()),
		renderCmd(fastinsertctl.New()),
	)

	return cmd
}

func initParams(cmd *cobra.Command, app *fastinsertctl.App) error {
	userSpecifiedConfigs, err := cmd.Flags().GetStringSlice(CustomConfigLocation)
	if err != nil {
		return err
	}
	if len(userSpecifiedConfigs) == 0 {
		userConfig, err := homeConfig()
		if err != nil {
			return err
		}
		if userConfig != "" {
			userSpecifiedConfigs = []string{userConfig}
		}
	}
	overrides := map[string]*pflag.Flag{
		"defaultGroupSize": cmd.Flags().Lookup("groupSize"),
		"database.driver":  cmd.Flags().Lookup("driver"),
	}
	if _, err := common.LoadConfig(&app.Params.Config, DefaultConfigPath, userSpecifiedConfigs, overrides); err != nil {
		return err
	}
	if err := app.Params.Config.Validate(); err != nil {
		return commonconfig.LogValidationErrors(err)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

// homeConfig returns the path of $HOME/.fastinsert.yaml, or "" if there is no such file.
func homeConfig() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.WithMessage(err, "error getting user home directory")
	}
	path := filepath.Join(home, HomeConfigFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.WithStack(err)
	}
	return path, nil
}

func makeContext() (context.Context, func()) {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(c)
		cancel()
	}
}
