package main

import (
	"fmt"
	"time"

	"legitapply/internal/config"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how much of the weekly run quota is used",
	Long:  "Reads the request log and prints the runs inside the rolling window, the remaining quota and when the next slot frees up. Never writes.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	gate, err := newThrottle(cfg)
	if err != nil {
		return err
	}
	st, err := gate.Status()
	if err != nil {
		return fmt.Errorf("failed to read request log %s: %w", cfg.Throttle.StorePath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📊 Request log: %s\n", cfg.Throttle.StorePath)
	fmt.Fprintf(out, "   Runs in last %s: %d/%d (%d remaining, %d logged in total)\n", st.Window, st.Used, st.Max, st.Remaining, st.Total)
	if st.Remaining > 0 {
		fmt.Fprintln(out, "   ✅ A run is allowed now.")
	} else {
		fmt.Fprintf(out, "   ⛔ Next slot at %s\n", st.NextAvailable.Local().Format(time.RFC1123))
	}
	return nil
}
