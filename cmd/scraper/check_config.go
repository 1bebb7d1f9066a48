package main

import (
	"fmt"

	"legitapply/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration and print the effective values",
	RunE:  runCheckConfig,
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	//never print secrets
	shown := *cfg
	if shown.LinkedIn.Password != "" {
		shown.LinkedIn.Password = "********"
	}
	if shown.Telegram.Token != "" {
		shown.Telegram.Token = "********"
	}

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Config loaded successfully!")
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
