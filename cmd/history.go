package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hxwen/tomato/internal/history"
)

var (
	historyLimit int
	historyTask  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed focus phases, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.OpenDefault()
		if err != nil {
			return err
		}
		defer store.Close()

		// Always load the full history: cumulative counts are defined over
		// the whole ascending record set, so the limit and task filter only
		// narrow what gets printed.
		records, err := store.Load(cmd.Context(), 0)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			cmd.Println("no focus history yet")
			return nil
		}
		counted := history.WithCumulative(records)

		cmd.Printf("%-20s  %-28s  %8s  %s\n", "COMPLETED", "TASK", "DURATION", "TOMATOES")
		printed := 0
		for _, r := range counted {
			if historyTask != "" && r.Task != historyTask {
				continue
			}
			if historyLimit > 0 && printed >= historyLimit {
				break
			}
			printed++
			when := r.CompletedAt
			if t := r.CompletedTime(); !t.IsZero() {
				when = t.Format("2006-01-02 15:04")
			}
			task := r.Task
			if task == "" {
				task = "(no task)"
			}
			cmd.Printf("%-20s  %-28s  %7dm  ×%d\n",
				when, task, r.DurationSeconds/60, r.Cumulative)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum records to show (0 = all)")
	historyCmd.Flags().StringVar(&historyTask, "task", "", "only show records for this task")
	rootCmd.AddCommand(historyCmd)
}
