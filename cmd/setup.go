package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hxwen/tomato/internal/config"
	"github.com/hxwen/tomato/internal/profile"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure tomato (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before profile exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(false)
	},
}

// runSetup runs the interactive setup wizard.
// If firstRun is true, a welcome message is shown.
func runSetup(firstRun bool) error {
	if firstRun {
		fmt.Println()
		fmt.Println("  Welcome to tomato! Let's get you set up.")
	}

	// Load existing profile as defaults if present.
	var existing *profile.Profile
	if profile.Exists() {
		p, err := profile.Load()
		if err == nil {
			existing = p
		}
	}

	prof, err := profile.RunSetup(existing)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := profile.Save(prof); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	fmt.Println("  ✓ Profile saved.")

	// Mirror the timer preferences into the global config file so they are
	// editable (and live-reloadable) without re-running the wizard.
	cfg, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}
	if prof.FocusMinutes > 0 {
		cfg.FocusSeconds = int64(prof.FocusMinutes) * 60
	}
	if prof.LongEvery > 0 {
		cfg.PomodorosBeforeLong = prof.LongEvery
	}
	if prof.DefaultTask != "" {
		cfg.DefaultTask = prof.DefaultTask
	}
	if err := config.Save(*cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("  Setup complete. Run 'tomato start' to begin.")
	fmt.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
