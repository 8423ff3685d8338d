package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpckit/balsamctl/pkg/store"
)

var (
	statusApp        string
	statusUnfinished bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show job states recorded in the workflow store",
	Long: `Read the workflow store's database directly and print how many jobs
are in each state. With --unfinished, list the jobs that have not finished
(state, workflow, name).

Connection settings come from BALSAMCTL_DB_* environment variables (a .env
file in the working directory is picked up automatically).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg, err := store.LoadConfig()
		if err != nil {
			return err
		}

		s, err := store.Open(cmd.Context(), dbCfg)
		if err != nil {
			return err
		}
		defer s.Close()

		jobs, err := s.ListJobs(cmd.Context(), statusApp)
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Println("No jobs recorded yet.")
			return nil
		}

		for _, sc := range store.SummarizeStates(jobs) {
			fmt.Printf("%15s : %4d\n", sc.State, sc.Count)
		}

		if statusUnfinished {
			fmt.Println()
			for _, j := range jobs {
				if j.Finished() {
					continue
				}
				fmt.Printf("%-20s workflow: %-20s job: %s\n", j.State, j.Workflow, j.Name)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusApp, "app", "", "Only count jobs whose application name contains this string")
	statusCmd.Flags().BoolVar(&statusUnfinished, "unfinished", false, "Also list jobs that have not finished")
}
