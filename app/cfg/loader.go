package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Content source configuration
	SheetURL     string `long:"sheet-url" env:"SHEET_URL" description:"Published spreadsheet CSV URL (required)" required:"true"`
	SiteProfile  string `long:"site-profile" env:"SITE_PROFILE" default:"./site.yml" description:"Optional YAML site profile (header aliases, fallback message, prompts)"`
	ScriptURL    string `long:"script-url" env:"SCRIPT_URL" description:"External endpoint for board/contact submission relay (optional)"`
	UTCOffset    int    `long:"utc-offset" env:"UTC_OFFSET" default:"-3" description:"Fixed UTC offset in hours for the content timezone"`
	RolloverHour int    `long:"rollover-hour" env:"ROLLOVER_HOUR" default:"4" description:"Local hour before which the previous day's content is still current"`

	// Fallback generation configuration
	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key for fallback generation (optional)"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" description:"Gemini model for fallback generation"`

	// Application configuration
	Port          string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl       string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://daily.example.com)"`
	WorkerCount   int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for submission relay"`
	ProbeInterval int    `long:"probe-interval" env:"PROBE_INTERVAL" default:"3600" description:"Sheet probe interval in seconds (0 disables probing)"`
	FetchTimeout  int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Remote fetch timeout in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Amanhecer/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SheetURL:      raw.SheetURL,
		SiteProfile:   raw.SiteProfile,
		ScriptURL:     raw.ScriptURL,
		UTCOffset:     raw.UTCOffset,
		RolloverHour:  raw.RolloverHour,
		GeminiAPIKey:  raw.GeminiAPIKey,
		GeminiModel:   raw.GeminiModel,
		Port:          raw.Port,
		BaseUrl:       raw.BaseUrl,
		WorkerCount:   raw.WorkerCount,
		ProbeInterval: raw.ProbeInterval,
		FetchTimeout:  raw.FetchTimeout,
		UserAgent:     raw.UserAgent,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// SetForTesting installs a configuration without going through flag parsing.
func SetForTesting(cfg *Cfg) {
	globalCfg = cfg
}
