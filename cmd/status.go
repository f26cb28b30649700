package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/hxwen/tomato/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved timer session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		s, err := store.Load()
		if err != nil {
			if errors.Is(err, session.ErrNoSnapshot) {
				cmd.Println("no saved session")
				return nil
			}
			return err
		}

		task := s.Task
		if task == "" {
			task = "(none)"
		}
		cmd.Printf("Task: %s\n", task)
		cmd.Printf("Phase: %s\n", s.Phase.Label())
		cmd.Printf("State: %s\n", s.State)
		cmd.Printf("Remaining: %02d:%02d of %02d:%02d\n",
			s.RemainingSeconds/60, s.RemainingSeconds%60,
			s.PhaseTotalSeconds/60, s.PhaseTotalSeconds%60)
		cmd.Printf("Pomodoros this round: %d\n", s.CompletedPomodoros)
		cmd.Printf("Saved: %s\n", s.SavedAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
