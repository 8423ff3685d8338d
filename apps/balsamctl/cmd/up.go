package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hpckit/balsamctl/pkg/taskrun"
)

var skipTask bool

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Initialize, run the setup task, and submit in one go",
	Long: `Run the whole pipeline: initialize the workflow store, run the
configured local task (usually the script that fills the store with job
definitions), then submit the launcher job. Steps run strictly in order and
the first failure aborts the rest.

The local task comes from config (task.command / task.args) and can be
skipped with --skip-task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}

		req, err := buildRequest(cmd, cfg)
		if err != nil {
			return err
		}

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		fmt.Printf("🔄 Initializing workflow store at %s...\n", req.WorkflowPath)
		if err := client.Initialize(ctx, req.WorkflowPath); err != nil {
			return explain(err)
		}

		if !skipTask && cfg.Task.Command != "" {
			env, err := cfg.TaskEnv()
			if err != nil {
				return err
			}

			fmt.Printf("🔄 Running %s...\n", cfg.Task.Command)
			r := taskrun.NewRunner(
				taskrun.WithBaseDir(baseDir(cfg.ConfigFileUsed())),
				taskrun.WithStream(os.Stdout),
			)
			task := taskrun.Task{
				Command:    cfg.Task.Command,
				Args:       cfg.Task.Args,
				Env:        env,
				WorkingDir: baseDir(cfg.ConfigFileUsed()),
			}
			if _, err := r.Run(ctx, task); err != nil {
				return explain(err)
			}
		}

		fmt.Println("🔄 Submitting launcher job...")
		handle, err := client.SubmitLaunch(ctx, req)
		if err != nil {
			return explain(err)
		}

		printHandle(handle)
		fmt.Println("💡 Check progress with: balsamctl status")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	addSubmitFlags(upCmd)
	upCmd.Flags().BoolVar(&skipTask, "skip-task", false, "Skip the configured local task")
}
