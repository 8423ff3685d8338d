package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/hpckit/balsamctl/pkg/bsdk"
	"github.com/hpckit/balsamctl/pkg/bsdk/berr"
	"github.com/hpckit/balsamctl/pkg/wflog"
)

type contextKey string

const configContextKey contextKey = "balsamctlconfig"

var (
	cfgFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "balsamctl",
		Short: "Drive workflow submissions on a Balsam-managed cluster",
		Long: `balsamctl wraps the balsam workload manager CLI for the common
"init store, run setup task, submit launcher" sequence. Use init/run/submit
for the individual steps, up for the whole pipeline, and status to inspect
the jobs recorded in the workflow store.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bsdk.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			if err := cfg.Viper().BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			cmd.SetContext(ctx)

			return nil
		},
	}
)

// GetConfig retrieves the Config from the command context
func GetConfig(cmd *cobra.Command) (*bsdk.Config, error) {
	ctx := cmd.Context()
	cfg, ok := ctx.Value(configContextKey).(*bsdk.Config)
	if !ok {
		return nil, errors.New("no config in context")
	}
	return cfg, nil
}

func getLogger() *wflog.Logger {
	if verbose {
		return wflog.NewVerbose()
	}
	return wflog.NewDefault()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// A failing external step carries its exit status forward; everything
		// else exits 1.
		code := berr.ExitCodeOf(err)
		if code <= 0 {
			code = 1
		}
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML). Searches: balsamctl.yaml, .balsamctl/config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
