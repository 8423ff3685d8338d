package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpckit/balsamctl/pkg/balsam"
	"github.com/hpckit/balsamctl/pkg/bsdk"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a workflow store",
	Long: `Initialize a workflow store at the given path (or the configured
workflowPath). Re-running against an existing compatible store is a no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}

		path := cfg.WorkflowPath
		if len(args) == 1 {
			path = args[0]
		}

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		if err := client.Initialize(cmd.Context(), path); err != nil {
			return explain(err)
		}

		fmt.Printf("✅ Workflow store ready at %s\n", path)
		return nil
	},
}

// newClient assembles a workflow manager client from config: binary override
// plus the resolved task environment (env file and env map).
func newClient(cfg *bsdk.Config) (*balsam.Client, error) {
	env, err := cfg.TaskEnv()
	if err != nil {
		return nil, err
	}
	return balsam.NewClient(
		balsam.WithBinary(cfg.Binary),
		balsam.WithEnv(env),
		balsam.WithLogger(getLogger()),
	), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
