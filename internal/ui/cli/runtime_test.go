package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cropcare/internal/api"
	coreapp "cropcare/internal/core/app"
	"cropcare/internal/core/config"
	"cropcare/internal/data/catalog"
	"cropcare/internal/engine/analysis"
)

func writeLeaf(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{G: 180, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "leaf.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newSeededApp(t *testing.T, values ...float64) *coreapp.App {
	t.Helper()
	a, err := coreapp.New(config.DefaultConfig(), coreapp.WithRandomSource(analysis.NewSequenceSource(values...)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.configPath != "" || opts.serve || opts.crops || opts.diagnose != "" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if !opts.uiMode() {
		t.Fatal("expected UI mode without mode flags")
	}
}

func TestParseOptions_DiagnoseFlags(t *testing.T) {
	opts, err := parseOptions([]string{"-diagnose", "leaf.jpg", "-crop", "rice", "-json", "-seed", "42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.diagnose != "leaf.jpg" || opts.crop != "rice" || !opts.jsonOutput || opts.seed != 42 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.uiMode() {
		t.Fatal("diagnose must not start the UI")
	}
}

func TestValidateModes(t *testing.T) {
	tests := []struct {
		name    string
		opts    cliOptions
		wantErr string
	}{
		{name: "ui", opts: cliOptions{}},
		{name: "serve", opts: cliOptions{serve: true}},
		{name: "crops", opts: cliOptions{crops: true}},
		{name: "diagnose", opts: cliOptions{diagnose: "leaf.png", crop: "tomato"}},
		{name: "combined", opts: cliOptions{crops: true, serve: true}, wantErr: "cannot be combined"},
		{name: "diagnose without crop", opts: cliOptions{diagnose: "leaf.png"}, wantErr: "requires --crop"},
		{name: "diagnose unknown crop", opts: cliOptions{diagnose: "leaf.png", crop: "banana"}, wantErr: "banana"},
		{name: "crop alone", opts: cliOptions{crop: "rice"}, wantErr: "requires --diagnose"},
		{name: "json alone", opts: cliOptions{jsonOutput: true}, wantErr: "requires --diagnose"},
		{name: "positional", opts: cliOptions{args: []string{"extra"}}, wantErr: "positional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateModes(tt.opts)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_DefaultDiscoveryOrder(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "data", "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(tmpDir, "data", "config", "cropcare.toml")
	if err := os.WriteFile(cfgPath, []byte("[app]\nseed = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fallback := filepath.Join(tmpDir, "cropcare.toml")
	if err := os.WriteFile(fallback, []byte("[app]\nseed = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := loadConfig("", tmpDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if path != cfgPath {
		t.Fatalf("expected %s, got %s", cfgPath, path)
	}
	if cfg.App.Seed != 7 {
		t.Fatalf("unexpected config payload: %+v", cfg.App)
	}
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	cfg, path, err := loadConfig("", t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no config path, got %q", path)
	}
	if cfg.API.Address != config.DefaultConfig().API.Address {
		t.Fatalf("expected default api address, got %q", cfg.API.Address)
	}
}

func TestLoadConfig_CustomPathNoFallback(t *testing.T) {
	tmpDir := t.TempDir()
	custom := filepath.Join(tmpDir, "custom.toml")

	_, _, err := loadConfig(custom, tmpDir)
	if err == nil {
		t.Fatal("expected missing custom config error")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestPrintCrops(t *testing.T) {
	var out bytes.Buffer
	printCrops(&out, catalog.Default())

	text := out.String()
	for _, crop := range catalog.AllCrops() {
		if !strings.Contains(text, crop.Label()) {
			t.Fatalf("expected %s in crop listing:\n%s", crop.Label(), text)
		}
	}
	if !strings.Contains(text, "Late Blight") {
		t.Fatalf("expected disease names in crop listing:\n%s", text)
	}
}

func TestRunDiagnose_Text(t *testing.T) {
	a := newSeededApp(t, 0.9, 0.5)
	var out bytes.Buffer

	err := runDiagnose(context.Background(), &out, a, cliOptions{diagnose: writeLeaf(t), crop: "tomato"})
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Healthy Leaf") || !strings.Contains(text, "Confidence: 95.5%") {
		t.Fatalf("unexpected output:\n%s", text)
	}
	if len(a.State().History) != 0 {
		t.Fatal("one-shot diagnosis must not touch history")
	}
}

func TestRunDiagnose_JSON(t *testing.T) {
	a := newSeededApp(t, 0.9, 0.5)
	var out bytes.Buffer

	err := runDiagnose(context.Background(), &out, a, cliOptions{diagnose: writeLeaf(t), crop: "rice", jsonOutput: true})
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	var got api.Prediction
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if got.Disease != "Healthy Leaf" || got.Confidence != "95.50%" {
		t.Fatalf("unexpected prediction: %+v", got)
	}
	if got.Result.Crop != catalog.Rice {
		t.Fatalf("unexpected crop %q", got.Result.Crop)
	}
}

func TestRunDiagnose_MissingFile(t *testing.T) {
	a := newSeededApp(t, 0.9, 0.5)
	var out bytes.Buffer

	err := runDiagnose(context.Background(), &out, a, cliOptions{diagnose: filepath.Join(t.TempDir(), "nope.png"), crop: "rice"})
	if err == nil {
		t.Fatal("expected error for missing image")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestIsLoopbackEndpoint(t *testing.T) {
	tests := map[string]bool{
		"localhost:4317":          true,
		"127.0.0.1:4317":          true,
		"[::1]:4317":              true,
		"collector.internal:4317": false,
		"10.0.0.5:4317":           false,
	}
	for endpoint, want := range tests {
		if got := isLoopbackEndpoint(endpoint); got != want {
			t.Fatalf("isLoopbackEndpoint(%q) = %v, want %v", endpoint, got, want)
		}
	}
}

func TestResolveLogPath_UsesXDGStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	if got, want := resolveLogPath(), filepath.Join(dir, "cropcare", "cropcare.log"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestObservabilityServer_ServesHealthAndMetrics(t *testing.T) {
	a := newSeededApp(t)
	srv := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(a))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = srv.Stop(context.Background()) }()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var status coreapp.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if status.Status != coreapp.StatusUp {
		t.Fatalf("unexpected status: %+v", status)
	}

	metrics, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer metrics.Body.Close()
	if metrics.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", metrics.StatusCode)
	}
}
