package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legitapply/internal/browser"
	"legitapply/internal/config"
	"legitapply/internal/runner"
	"legitapply/internal/scraper"
	"legitapply/internal/scraper/linkedin"
	"legitapply/internal/telegram"
	"legitapply/internal/throttle"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "scraper",
	Short:         "Scrape LinkedIn job search results into a CSV, within a weekly run quota",
	Long:          "Logs into LinkedIn with a real browser, walks the configured job searches, drops promoted and intern listings, and writes the rest to a CSV. Runs are capped by a rolling seven-day quota.",
	RunE:          runScrape,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	limited    bool
	limit      int
	verbose    bool
	runTimeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config YAML (default configs/config.yaml or $LEGITAPPLY_CONFIG)")
	rootCmd.Flags().BoolVar(&limited, "limited", false, "Process only search.limited_run_listings listings in total")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Process at most N listings in total (implies --limited)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every field that could not be extracted")
	rootCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "Abort the run after this long")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runScrape(cmd *cobra.Command, _ []string) error {
	//load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log.Printf("🔧 Config loaded. Queries: %d, quota: %d runs per %s", len(cfg.Search.Queries), cfg.Throttle.MaxRuns, cfg.Throttle.Window)

	runLimit := 0
	switch {
	case cmd.Flags().Changed("limit"):
		if limit <= 0 {
			return fmt.Errorf("--limit must be positive, got %d", limit)
		}
		runLimit = limit
	case limited:
		runLimit = cfg.Search.LimitedRunListings
	}
	if runLimit > 0 {
		log.Printf("🧪 Limited run: at most %d listings.", runLimit)
	}

	gate, err := newThrottle(cfg)
	if err != nil {
		return err
	}

	//a denied run must not reach the keychain, Telegram or the browser
	if err := runner.CheckQuota(gate); err != nil {
		if errors.Is(err, runner.ErrQuotaExceeded) {
			log.Printf("⛔ %v. Exiting.", err)
			return nil
		}
		return err
	}

	creds := resolveCredentials(cfg)

	li := linkedin.NewLinkedInScraper(linkedin.Options{
		Selectors:      cfg.Selectors,
		Rules:          cfg.Exclude,
		PagesPerQuery:  cfg.Search.PagesPerQuery,
		ContentTimeout: cfg.Browser.ContentTimeout,
		ExtraParams:    cfg.Search.ExtraParams,
		Limit:          runLimit,
		Verbose:        verbose,
	})

	r := runner.New(runner.Deps{
		Gate:        gate,
		OpenSession: sessionOpener(cfg),
		Scraper:     li,
		Notifier:    newNotifier(cfg),
	}, runner.Options{
		Queries:      cfg.Search.Queries,
		Credentials:  creds,
		OutputPath:   cfg.Output.CSVPath,
		RecordPolicy: cfg.Throttle.RecordPolicy,
	})

	//setup context with timeout, cancelled on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	log.Println("🚀 Starting LegitApply scraper...")
	if _, err := r.Run(ctx); err != nil {
		if errors.Is(err, runner.ErrQuotaExceeded) {
			log.Printf("⛔ %v. Exiting.", err)
			return nil
		}
		return err
	}
	log.Println("🏁 Execution finished.")
	return nil
}

var resolveCredentials = func(cfg *config.Config) scraper.Credentials {
	return cfg.Credentials()
}

func newThrottle(cfg *config.Config) (*throttle.Throttle, error) {
	return throttle.New(throttle.Config{
		MaxRuns:   cfg.Throttle.MaxRuns,
		Window:    cfg.Throttle.Window,
		StorePath: cfg.Throttle.StorePath,
	})
}

func sessionOpener(cfg *config.Config) runner.SessionOpener {
	return func(ctx context.Context) (scraper.Session, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sess, err := browser.Open(browser.Options{
			Launch: browser.LaunchOptions{
				Headless:  cfg.Browser.Headless,
				SlowMo:    cfg.Browser.SlowMo,
				UserAgent: cfg.Browser.UserAgent,
			},
			NavigationTimeout: cfg.Browser.NavigationTimeout,
			LoginTimeout:      cfg.Browser.LoginTimeout,
			CookiesPath:       cfg.LinkedIn.CookiesPath,
			ScreenshotDir:     cfg.Browser.ScreenshotDir,
			Pacing:            cfg.Pacing,
			Site:              browser.LinkedInSite(),
		})
		if err != nil {
			return nil, err
		}
		return sess, nil
	}
}

func newNotifier(cfg *config.Config) runner.Notifier {
	if !cfg.Telegram.Enabled() {
		return telegram.Nop{}
	}
	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("⚠️ Telegram disabled: %v", err)
		return telegram.Nop{}
	}
	log.Println("🤖 Telegram Bot initialized.")
	return bot
}
