package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/hxwen/tomato/internal/config"
	"github.com/hxwen/tomato/internal/history"
	"github.com/hxwen/tomato/internal/session"
	"github.com/hxwen/tomato/internal/tui"
)

var (
	startTask       string
	startFocus      int64
	startShortBreak int64
	startLongBreak  int64
	startLongEvery  int
	startFresh      bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("tomato start needs an interactive terminal")
		}

		merged := GetConfig()
		// Flag overrides sit on top of the merged config.
		if startFocus > 0 {
			merged.FocusSeconds = startFocus * 60
		}
		if startShortBreak > 0 {
			merged.ShortBreakSeconds = startShortBreak * 60
		}
		if startLongBreak > 0 {
			merged.LongBreakSeconds = startLongBreak * 60
		}
		if startLongEvery > 0 {
			merged.PomodorosBeforeLong = startLongEvery
		}

		task := merged.DefaultTask
		if startTask != "" {
			task = startTask
		}

		sessStore, err := session.NewStore()
		if err != nil {
			return err
		}

		var snapshot *session.Snapshot
		if !startFresh {
			snapshot, err = sessStore.Load()
			if err != nil && !errors.Is(err, session.ErrNoSnapshot) {
				// A corrupt snapshot is a "start fresh" case, not a fatal one.
				snapshot = nil
			}
		}

		// History persistence is best-effort: when the store cannot be
		// opened the timer still runs, it just warns in the status line.
		var (
			store   *history.Store
			records []history.FocusRecord
		)
		if store, err = history.OpenDefault(); err == nil {
			defer store.Close()
			records, err = store.Load(context.Background(), 0)
			if err != nil {
				records = nil
			}
		} else {
			store = nil
		}

		sound := true
		if p := GetProfile(); p != nil {
			sound = p.Sound
		}

		configPath, err := config.GlobalPath()
		if err != nil {
			configPath = ""
		}

		return tui.Run(tui.Options{
			Task:       task,
			Timer:      merged.Timer(),
			Sound:      sound,
			Snapshot:   snapshot,
			History:    store,
			Sessions:   sessStore,
			Records:    records,
			ConfigPath: configPath,
		})
	},
}

func init() {
	startCmd.Flags().StringVarP(&startTask, "task", "t", "", "task label for completed pomodoros")
	startCmd.Flags().Int64Var(&startFocus, "focus", 0, "focus length in minutes (overrides config)")
	startCmd.Flags().Int64Var(&startShortBreak, "short-break", 0, "short break length in minutes (overrides config)")
	startCmd.Flags().Int64Var(&startLongBreak, "long-break", 0, "long break length in minutes (overrides config)")
	startCmd.Flags().IntVar(&startLongEvery, "long-every", 0, "pomodoros before a long break (overrides config)")
	startCmd.Flags().BoolVar(&startFresh, "fresh", false, "ignore any saved session and start clean")
	rootCmd.AddCommand(startCmd)
}
