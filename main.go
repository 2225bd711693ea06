package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/navshell/internal/app"
	"github.com/atomicstack/navshell/internal/backend"
	"github.com/atomicstack/navshell/internal/config"
	"github.com/atomicstack/navshell/internal/logging"
	"github.com/atomicstack/navshell/internal/logging/events"
	"github.com/atomicstack/navshell/internal/selection"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	if logging.TraceEnabled() {
		traceStartup(runtimeCfg)
	}

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = logging.Path()
	payload := map[string]interface{}{
		"argv":      cfg.Args,
		"flags":     flags,
		"source":    describeSource(cfg.App),
		"selection": describeSelection(cfg.App),
		"grace":     cfg.App.Grace.String(),
		"bridge":    describeBridge(cfg.App),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

func describeSource(cfg app.Config) map[string]interface{} {
	src, err := cfg.Source()
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	out := map[string]interface{}{"location": src.String()}
	switch s := src.(type) {
	case backend.HTTPSource:
		out["kind"] = "http"
	case backend.FileSource:
		out["kind"] = "file"
		if _, err := os.Stat(s.Path); err != nil {
			out["statError"] = err.Error()
		}
	}
	if cfg.Poll > 0 {
		out["poll"] = cfg.Poll.String()
	}
	out["timeout"] = cfg.FetchTimeout.String()
	return out
}

// describeSelection reports where the selection lives and what a disk
// store would seed the session with. It reads the record without
// applying a pending reset.
func describeSelection(cfg app.Config) map[string]interface{} {
	if cfg.Ephemeral {
		return map[string]interface{}{"mode": "ephemeral"}
	}
	out := map[string]interface{}{
		"mode":     "disk",
		"stateDir": cfg.StateDir,
		"reset":    cfg.ResetSelection,
	}
	store, err := selection.OpenDisk(cfg.StateDir)
	if err != nil {
		out["error"] = err.Error()
		return out
	}
	stored, ok := store.Load()
	out["found"] = ok
	if ok {
		out["stored"] = stored
	}
	return out
}

func describeBridge(cfg app.Config) map[string]interface{} {
	if cfg.BridgeSocket == "" {
		return map[string]interface{}{"enabled": false}
	}
	return map[string]interface{}{"enabled": true, "socket": cfg.BridgeSocket}
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		} else {
			entry.IsTerminal = false
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
