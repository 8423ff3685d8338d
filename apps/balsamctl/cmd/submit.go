package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpckit/balsamctl/pkg/balsam"
	"github.com/hpckit/balsamctl/pkg/bsdk"
)

var (
	submitPreset       string
	submitWorkflowPath string
	submitQueue        string
	submitAccount      string
	submitWalltime     int
	submitNodes        int
	submitMode         string
	submitSchedFlags   []string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a launcher job to the batch scheduler",
	Long: `Submit a launcher job that pulls queued work from the workflow store
and executes it on the allocated nodes.

Examples:
  # Everything explicit
  balsamctl submit -q day-long-cpu -A MYALLOC -t 1200 -n 1 --mode serial

  # Start from a configured preset, override the node count
  balsamctl submit --preset day-long-cpu -n 4`,
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

		handle, err := client.SubmitLaunch(cmd.Context(), req)
		if err != nil {
			return explain(err)
		}

		printHandle(handle)
		return nil
	},
}

// addSubmitFlags registers the submission flags; submit and up share them
// (only one command runs per process).
func addSubmitFlags(c *cobra.Command) {
	c.Flags().StringVar(&submitPreset, "preset", "", "Named preset from config to start from")
	c.Flags().StringVar(&submitWorkflowPath, "workflow-path", "", "Workflow store path (default: config workflowPath)")
	c.Flags().StringVarP(&submitQueue, "queue", "q", "", "Scheduler queue name")
	c.Flags().StringVarP(&submitAccount, "account", "A", "", "Allocation/account to charge")
	c.Flags().IntVarP(&submitWalltime, "walltime", "t", 0, "Wall-time limit in minutes")
	c.Flags().IntVarP(&submitNodes, "nodes", "n", 0, "Number of compute nodes")
	c.Flags().StringVar(&submitMode, "mode", string(balsam.JobModeSerial), "Launcher job mode: serial or mpi")
	c.Flags().StringSliceVar(&submitSchedFlags, "sched-flags", nil, "Extra scheduler flags passed through unmodified")
}

// buildRequest resolves preset, config, and explicit flags into one request.
// Explicit flags win over the preset; the preset wins over nothing at all.
func buildRequest(cmd *cobra.Command, cfg *bsdk.Config) (balsam.SubmissionRequest, error) {
	workflowPath := cfg.WorkflowPath
	if cmd.Flags().Changed("workflow-path") {
		workflowPath = submitWorkflowPath
	}

	var req balsam.SubmissionRequest
	if submitPreset != "" {
		p, err := cfg.Preset(submitPreset)
		if err != nil {
			return balsam.SubmissionRequest{}, err
		}
		req = p.Request(workflowPath)
	} else {
		req = balsam.SubmissionRequest{
			WorkflowPath: workflowPath,
			JobMode:      balsam.JobModeSerial,
		}
	}

	if cmd.Flags().Changed("queue") {
		req.Queue = submitQueue
	}
	if cmd.Flags().Changed("account") {
		req.Account = submitAccount
	}
	if cmd.Flags().Changed("walltime") {
		req.WallTimeMinutes = submitWalltime
	}
	if cmd.Flags().Changed("nodes") {
		req.NodeCount = submitNodes
	}
	if cmd.Flags().Changed("mode") {
		mode, err := balsam.ParseJobMode(submitMode)
		if err != nil {
			return balsam.SubmissionRequest{}, err
		}
		req.JobMode = mode
	}
	if cmd.Flags().Changed("sched-flags") {
		req.ExtraSchedulerFlags = submitSchedFlags
	}

	return req, nil
}

func printHandle(handle *balsam.JobHandle) {
	if handle.SchedulerID != "" {
		fmt.Printf("✅ Launcher job submitted (scheduler id: %s)\n", handle.SchedulerID)
	} else {
		fmt.Println("✅ Launcher job submitted")
	}
	if handle.Raw != "" {
		fmt.Println(handle.Raw)
	}
}

func init() {
	rootCmd.AddCommand(submitCmd)
	addSubmitFlags(submitCmd)
}
