package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hpckit/balsamctl/pkg/taskrun"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a local task and record its execution",
	Long: `Run a command synchronously and record it under .balsamctl/runs.

Examples:
  # Populate the workflow store with job definitions
  balsamctl run -- python setup_jobs.py

  # Anything else worth keeping logs for
  balsamctl run -- ./prepare_inputs.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}

		if args[0] == "--" {
			args = args[1:]
		}

		env, err := cfg.TaskEnv()
		if err != nil {
			return err
		}

		task := taskrun.Task{
			Command:    args[0],
			Args:       args[1:],
			Env:        env,
			WorkingDir: baseDir(cfg.ConfigFileUsed()),
		}

		r := taskrun.NewRunner(
			taskrun.WithBaseDir(task.WorkingDir),
			taskrun.WithStream(os.Stdout),
		)

		res, err := r.Run(cmd.Context(), task)
		if err != nil {
			return explain(err)
		}

		fmt.Printf("✅ Task completed in %s (logs: %s)\n", res.FinishedAt.Sub(res.StartedAt).Round(10*time.Millisecond), res.LogsPath)
		return nil
	},
}

// baseDir anchors run directories next to the config file when one was used,
// otherwise in the current directory.
func baseDir(configFileUsed string) string {
	if configFileUsed != "" {
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			return filepath.Dir(abs)
		}
	}
	cwd, _ := os.Getwd()
	return cwd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
