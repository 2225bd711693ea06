package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/atomicstack/navshell/internal/app"
	"github.com/atomicstack/navshell/internal/navigation"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envNavURL       = "NAVSHELL_NAV_URL"
	envNavFile      = "NAVSHELL_NAV_FILE"
	envStateDir     = "NAVSHELL_STATE_DIR"
	envEphemeral    = "NAVSHELL_EPHEMERAL"
	envReset        = "NAVSHELL_RESET_SELECTION"
	envGrace        = "NAVSHELL_GRACE"
	envPoll         = "NAVSHELL_POLL"
	envFetchTimeout = "NAVSHELL_FETCH_TIMEOUT"
	envBridgeSocket = "NAVSHELL_BRIDGE_SOCKET"
	envStart        = "NAVSHELL_START"
	envWidth        = "NAVSHELL_WIDTH"
	envHeight       = "NAVSHELL_HEIGHT"
	envShowFooter   = "NAVSHELL_FOOTER"
	envTrace        = "NAVSHELL_TRACE"
	envLogFile      = "NAVSHELL_LOG_FILE"
)

const defaultStateDir = "~/.navshell"

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("navshell", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	navURL := fs.String("nav-url", envOrDefault(env, envNavURL, ""), "URL serving the navigation payload")
	navFile := fs.String("nav-file", envOrDefault(env, envNavFile, ""), "path to a navigation payload file (watched for changes)")
	stateDir := fs.String("state-dir", envOrDefault(env, envStateDir, defaultStateDir), "directory holding the persisted selection")
	ephemeral := fs.Bool("ephemeral", envOrBool(env, envEphemeral, false), "keep the selection in memory only")
	reset := fs.Bool("reset-selection", envOrBool(env, envReset, false), "forget the stored selection before starting")
	grace := fs.Duration("grace", envOrDuration(env, envGrace, navigation.DefaultGrace), "hover grace period")
	poll := fs.Duration("poll", envOrDuration(env, envPoll, 0), "re-fetch the navigation payload on this interval (0 disables)")
	fetchTimeout := fs.Duration("fetch-timeout", envOrDuration(env, envFetchTimeout, 10*time.Second), "timeout for a single payload fetch")
	bridgeSocket := fs.String("bridge-socket", envOrDefault(env, envBridgeSocket, ""), "unix socket accepting overlay notifications")
	start := fs.String("start", envOrDefault(env, envStart, ""), "href to open at startup")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	expandedState, err := homedir.Expand(*stateDir)
	if err != nil {
		return Config{}, fmt.Errorf("state-dir: %w", err)
	}
	expandedFile, err := homedir.Expand(*navFile)
	if err != nil {
		return Config{}, fmt.Errorf("nav-file: %w", err)
	}
	expandedSocket, err := homedir.Expand(*bridgeSocket)
	if err != nil {
		return Config{}, fmt.Errorf("bridge-socket: %w", err)
	}
	expandedLog, err := homedir.Expand(*logFile)
	if err != nil {
		return Config{}, fmt.Errorf("log-file: %w", err)
	}

	cfg := Config{
		App: app.Config{
			NavURL:         strings.TrimSpace(*navURL),
			NavFile:        expandedFile,
			StateDir:       expandedState,
			Ephemeral:      *ephemeral,
			ResetSelection: *reset,
			Grace:          *grace,
			Poll:           *poll,
			FetchTimeout:   *fetchTimeout,
			BridgeSocket:   expandedSocket,
			Start:          strings.TrimSpace(*start),
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
		},
		Logging: Logging{
			FilePath: expandedLog,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"navURL":       *navURL,
			"navFile":      expandedFile,
			"stateDir":     expandedState,
			"ephemeral":    strconv.FormatBool(*ephemeral),
			"reset":        strconv.FormatBool(*reset),
			"grace":        grace.String(),
			"poll":         poll.String(),
			"fetchTimeout": fetchTimeout.String(),
			"bridgeSocket": expandedSocket,
			"start":        *start,
			"width":        strconv.Itoa(*width),
			"height":       strconv.Itoa(*height),
			"footer":       strconv.FormatBool(*footer),
			"trace":        strconv.FormatBool(*trace),
			"logFile":      expandedLog,
		},
		Args: append([]string(nil), args...),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks cross-field rules.
func Validate(cfg Config) error {
	a := cfg.App
	switch {
	case a.NavURL == "" && a.NavFile == "":
		return errors.New("one of -nav-url or -nav-file is required")
	case a.NavURL != "" && a.NavFile != "":
		return errors.New("-nav-url and -nav-file are mutually exclusive")
	}
	if a.NavURL != "" && !strings.HasPrefix(a.NavURL, "http://") && !strings.HasPrefix(a.NavURL, "https://") {
		return fmt.Errorf("nav-url must be http or https (got %q)", a.NavURL)
	}
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	if a.Grace <= 0 {
		return fmt.Errorf("grace must be > 0 (got %s)", a.Grace)
	}
	if a.Poll < 0 {
		return fmt.Errorf("poll must be >= 0 (got %s)", a.Poll)
	}
	if a.FetchTimeout < 0 {
		return fmt.Errorf("fetch-timeout must be >= 0 (got %s)", a.FetchTimeout)
	}
	if !a.Ephemeral && a.StateDir == "" {
		return errors.New("state-dir is required unless -ephemeral is set")
	}
	return nil
}
