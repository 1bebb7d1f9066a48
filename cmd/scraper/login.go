package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"legitapply/internal/config"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log into LinkedIn once and save the session cookies",
	Long:  "Opens a visible browser, logs in (or reuses saved cookies) and saves the cookies to linkedin.cookies_path. No search is run and the weekly quota is not touched.",
	RunE:  runLogin,
}

var (
	loginHeadless bool
	loginTimeout  time.Duration
)

func init() {
	loginCmd.Flags().BoolVar(&loginHeadless, "headless", false, "Run the browser headless")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 3*time.Minute, "Give up after this long")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.LinkedIn.CookiesPath == "" {
		return fmt.Errorf("linkedin.cookies_path is empty, nowhere to save the session")
	}
	cfg.Browser.Headless = loginHeadless

	creds := resolveCredentials(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	sess, err := sessionOpener(cfg)(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser session: %v", err)
		}
	}()

	if err := sess.Login(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🍪 Session saved to %s\n", cfg.LinkedIn.CookiesPath)
	return nil
}
