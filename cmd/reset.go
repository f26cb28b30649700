package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hxwen/tomato/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved session and pomodoro count",
	Long: `Reset deletes the saved session snapshot, so the next start begins
idle in the focus phase with zero pomodoros. Focus history already written
is untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}
		if err := store.Delete(); err != nil {
			return err
		}
		cmd.Println("Session reset.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
