// Load envs from .env
// Load YAML config
// Apply env overrides
// Validate config

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"legitapply/internal/browser"
	"legitapply/internal/filter"
	"legitapply/internal/runner"
	"legitapply/internal/scraper"
	"legitapply/internal/scraper/linkedin"
	"legitapply/internal/secrets"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "configs/config.yaml"
	PathEnv     = "LEGITAPPLY_CONFIG"
)

type Config struct {
	LinkedIn  LinkedInConfig     `yaml:"linkedin"`
	Throttle  ThrottleConfig     `yaml:"throttle"`
	Search    SearchConfig       `yaml:"search"`
	Exclude   filter.Rules       `yaml:"exclude"`
	Browser   BrowserConfig      `yaml:"browser"`
	Pacing    browser.Pacing     `yaml:"pacing"`
	Selectors linkedin.Selectors `yaml:"selectors"`
	Output    OutputConfig       `yaml:"output"`
	Telegram  TelegramConfig     `yaml:"telegram"`
}

type LinkedInConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	//KeyringAccount names the OS keychain entry holding the password
	KeyringAccount string `yaml:"keyring_account"`
	CookiesPath    string `yaml:"cookies_path"`
}

type ThrottleConfig struct {
	MaxRuns      int                 `yaml:"max_runs" validate:"gte=1"`
	Window       time.Duration       `yaml:"window" validate:"gt=0"`
	StorePath    string              `yaml:"store_path" validate:"required"`
	RecordPolicy runner.RecordPolicy `yaml:"record_policy" validate:"oneof=after_login always on_results"`
}

type SearchConfig struct {
	Queries            []scraper.Query   `yaml:"queries" validate:"min=1,dive"`
	PagesPerQuery      int               `yaml:"pages_per_query" validate:"gte=1,lte=40"`
	ExtraParams        map[string]string `yaml:"extra_params"`
	LimitedRunListings int               `yaml:"limited_run_listings" validate:"gte=1"`
}

type BrowserConfig struct {
	Headless          bool          `yaml:"headless"`
	SlowMo            time.Duration `yaml:"slow_mo" validate:"gte=0"`
	UserAgent         string        `yaml:"user_agent"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" validate:"gt=0"`
	ContentTimeout    time.Duration `yaml:"content_timeout" validate:"gt=0"`
	LoginTimeout      time.Duration `yaml:"login_timeout" validate:"gt=0"`
	ScreenshotDir     string        `yaml:"screenshot_dir"`
}

type OutputConfig struct {
	CSVPath string `yaml:"csv_path" validate:"required"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id" validate:"required_with=Token"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Default returns the configuration used when no file or env overrides it.
func Default() *Config {
	return &Config{
		LinkedIn: LinkedInConfig{
			CookiesPath: ".cookies/linkedin.json",
		},
		Throttle: ThrottleConfig{
			MaxRuns:      25,
			Window:       7 * 24 * time.Hour,
			StorePath:    "request_log.json",
			RecordPolicy: runner.RecordAfterLogin,
		},
		Search: SearchConfig{
			Queries: []scraper.Query{
				{Keyword: "software engineer", Location: "Houston, TX"},
			},
			PagesPerQuery:      1,
			LimitedRunListings: 10,
		},
		Exclude: filter.Rules{
			Markers:       []string{"Promoted"},
			TitleKeywords: []string{"intern", "internship"},
		},
		Browser: BrowserConfig{
			Headless:          true,
			NavigationTimeout: 30 * time.Second,
			ContentTimeout:    15 * time.Second,
			LoginTimeout:      20 * time.Second,
		},
		Pacing:    browser.DefaultPacing(),
		Selectors: linkedin.DefaultSelectors(),
		Output: OutputConfig{
			CSVPath: "data/linkedin_jobs.csv",
		},
	}
}

// Load reads .env, the YAML file and env overrides, in that order, and
// validates the result. An empty path means LEGITAPPLY_CONFIG or the default
// location; only the default location may be missing.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		path = DefaultPath
		explicit = false
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config error: parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		log.Printf("Warning: Could not read %s: %v", path, err)
	default:
		return nil, fmt.Errorf("config error: reading %s: %w", path, err)
	}

	//Override with env vars
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("LINKEDIN_EMAIL"); v != "" {
		c.LinkedIn.Email = v
	}
	if v := getenv("LINKEDIN_PASSWORD"); v != "" {
		c.LinkedIn.Password = v
	}
	if v := getenv("MAX_WEEKLY_RUNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid MAX_WEEKLY_RUNS %q: %w", v, err)
		}
		c.Throttle.MaxRuns = n
	}
	if v := getenv("REQUEST_LOG_PATH"); v != "" {
		c.Throttle.StorePath = v
	}
	if v := getenv("JOBS_CSV_PATH"); v != "" {
		c.Output.CSVPath = v
	}
	if v := getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config error: invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		c.Telegram.ChatID = id
	}
	if v := getenv("HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: invalid HEADLESS %q: %w", v, err)
		}
		c.Browser.Headless = b
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	//report fields by their yaml names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config error: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	if err := c.Pacing.ScrollDelay.Validate(); err != nil {
		problems = append(problems, "pacing.scroll_delay: "+err.Error())
	}
	if err := c.Pacing.CardDelay.Validate(); err != nil {
		problems = append(problems, "pacing.card_delay: "+err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("config error: %s", strings.Join(problems, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	//drop the root struct name
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_with":
		return field + " is required when " + strings.ToLower(fe.Param()) + " is set"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s must be %s %s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// Credentials resolves the login, falling back to the OS keychain for the
// password. A missing password is left empty: saved cookies may still log in.
func (c *Config) Credentials() scraper.Credentials {
	account := c.LinkedIn.KeyringAccount
	if account == "" {
		account = c.LinkedIn.Email
	}
	return scraper.Credentials{
		Email:    c.LinkedIn.Email,
		Password: secrets.ResolvePassword(c.LinkedIn.Password, account),
	}
}
