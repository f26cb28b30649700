package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hxwen/tomato/internal/config"
	"github.com/hxwen/tomato/internal/history"
	"github.com/hxwen/tomato/internal/session"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show where tomato keeps its data",
	Long: `About prints the data and config locations. The data directory is
self-contained: copy it to move your focus history to another machine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := session.DataDir()
		if err != nil {
			return err
		}
		dbPath, err := history.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath, err := config.GlobalPath()
		if err != nil {
			return err
		}

		cmd.Println("tomato — a pomodoro timer for the terminal")
		cmd.Printf("Data directory: %s\n", dataDir)
		cmd.Printf("Focus history:  %s\n", dbPath)
		cmd.Printf("Config file:    %s\n", cfgPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}
