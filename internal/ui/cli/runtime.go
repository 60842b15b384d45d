package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cropcare/internal/api"
	coreapp "cropcare/internal/core/app"
	"cropcare/internal/core/config"
	"cropcare/internal/data/catalog"
	"cropcare/internal/shared/observability"
	"cropcare/internal/ui/tui"
)

const shutdownTimeout = 5 * time.Second

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("cropcare v%s\n", versionString)
		return 0
	}

	if err := validateModes(opts); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}

	cleanupLogs := configureLogging(opts.uiMode(), opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if opts.seed != 0 {
		cfg.App.Seed = opts.seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingOptions{
		Enabled:      cfg.Observability.Enabled && cfg.Observability.EnableTracing,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		Insecure:     isLoopbackEndpoint(cfg.Observability.OTLPEndpoint),
	})
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	a, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer a.Close()

	switch {
	case opts.crops:
		printCrops(os.Stdout, a.Catalog)
		return 0
	case opts.diagnose != "":
		if err := runDiagnose(ctx, os.Stdout, a, opts); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
		return 0
	case opts.serve:
		if err := runServe(ctx, a, cfg.API); err != nil {
			slog.Error("api server failed", "error", err)
			return 1
		}
		return 0
	}

	if err := runUI(ctx, a, cfg, cfgPath); err != nil {
		slog.Error("failed to run UI", "error", err)
		return 1
	}
	return 0
}

func validateModes(opts cliOptions) error {
	modeCount := 0
	if opts.crops {
		modeCount++
	}
	if opts.diagnose != "" {
		modeCount++
	}
	if opts.serve {
		modeCount++
	}
	if modeCount > 1 {
		return fmt.Errorf("--crops, --diagnose, and --serve cannot be combined")
	}
	if len(opts.args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(opts.args, " "))
	}

	if opts.diagnose != "" {
		if strings.TrimSpace(opts.crop) == "" {
			return fmt.Errorf("--diagnose requires --crop")
		}
		if _, err := catalog.ParseCropType(opts.crop); err != nil {
			return err
		}
		return nil
	}
	if opts.crop != "" {
		return fmt.Errorf("--crop requires --diagnose")
	}
	if opts.jsonOutput {
		return fmt.Errorf("--json requires --diagnose")
	}
	return nil
}

// loadConfig loads path, or the first discovered candidate when path is
// empty. With nothing on disk the built-in defaults are used and the returned
// path is empty.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if strings.TrimSpace(path) != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	if strings.TrimSpace(cwd) == "" {
		return nil, "", fmt.Errorf("cwd must not be empty")
	}
	candidate := config.Discover(cwd)
	if candidate == "" {
		slog.Debug("no config file found, using defaults", "cwd", cwd)
		cfg := config.DefaultConfig()
		config.ApplyEnvOverrides(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}
	cfg, err := config.Load(candidate)
	if err != nil {
		return nil, "", err
	}
	return cfg, candidate, nil
}

func printCrops(w io.Writer, cat catalog.Catalog) {
	for _, crop := range catalog.AllCrops() {
		records := cat.Diseases(crop)
		fmt.Fprintf(w, "%s (%s): %d known diseases\n", crop.Label(), crop, len(records))
		for _, rec := range records {
			fmt.Fprintf(w, "  - %s\n", rec.Name)
		}
	}
}

func runDiagnose(ctx context.Context, w io.Writer, a *coreapp.App, opts cliOptions) error {
	crop, err := catalog.ParseCropType(opts.crop)
	if err != nil {
		return err
	}
	result, err := a.Diagnose(ctx, opts.diagnose, crop)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewPrediction(result))
	}

	fmt.Fprintf(w, "Crop:       %s\n", result.Crop.Label())
	fmt.Fprintf(w, "Image:      %s (%s)\n", result.Image.Name, result.Image.MIME)
	if result.Healthy {
		fmt.Fprintln(w, "Result:     Healthy Leaf")
	} else {
		fmt.Fprintf(w, "Result:     %s\n", result.DiseaseName)
	}
	fmt.Fprintf(w, "Confidence: %.1f%%\n", result.Confidence)
	if result.Cause != "" {
		fmt.Fprintf(w, "Cause:      %s\n", result.Cause)
	}
	writeList(w, "Symptoms", result.Symptoms)
	writeList(w, "Treatment", result.Treatment)
	writeList(w, "Prevention", result.Prevention)
	return nil
}

func writeList(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func runServe(ctx context.Context, a *coreapp.App, cfg config.API) error {
	server, err := api.NewServer(a, cfg)
	if err != nil {
		return fmt.Errorf("build api server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		server.Close()
		return err
	}

	<-ctx.Done()
	slog.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

func runUI(ctx context.Context, a *coreapp.App, cfg *config.Config, cfgPath string) error {
	if cfg.Observability.Enabled {
		obs := NewObservabilityServer(cfg.Observability.Address, coreapp.NewHealthService(a))
		if err := obs.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := obs.Stop(shutdownCtx); err != nil {
				slog.Warn("observability server shutdown failed", "error", err)
			}
		}()
	}

	if cfgPath != "" {
		watcher := config.NewWatcher(cfgPath, func(next *config.Config) {
			if err := a.ApplyConfig(next); err != nil {
				slog.Warn("ignoring reloaded config", "path", cfgPath, "error", err)
				return
			}
			slog.Info("config reloaded", "path", cfgPath)
		})
		if err := watcher.Start(ctx); err != nil {
			slog.Warn("config watcher unavailable", "path", cfgPath, "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	return tui.Run(a, cfg.App.SplashDuration)
}

func isLoopbackEndpoint(endpoint string) bool {
	host, _, err := net.SplitHostPort(strings.TrimSpace(endpoint))
	if err != nil {
		host = strings.TrimSpace(endpoint)
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	var output io.Writer = os.Stderr
	closeFn := func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
				closeFn = func() { _ = f.Close() }
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cropcare", "cropcare.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "cropcare", "cropcare.log")
	}

	return "cropcare.log"
}
