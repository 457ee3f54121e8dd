package startup

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// isolateConfigEnv unsets every variable Config reads and restores the
// original values when the test ends, including any set by a .env file.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	typ := reflect.TypeOf(Config{})
	for i := range typ.NumField() {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("env"), ",")
		original, had := os.LookupEnv(name)
		os.Unsetenv(name)
		t.Cleanup(func() {
			if had {
				os.Setenv(name, original)
			} else {
				os.Unsetenv(name)
			}
		})
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfigEnv(t)

	config, err := LoadConfig(noEnvFile(t))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := &Config{
		BindAddr:             "127.0.0.1",
		Port:                 8765,
		MetricsPort:          9765,
		MetricsEnabled:       true,
		LogStaticFiles:       false,
		LogHealthChecks:      true,
		ProxyWorkers:         0,
		FFmpegPath:           "ffmpeg",
		FFprobePath:          "ffprobe",
		ShutdownTimeout:      10 * time.Second,
		MemorySampleInterval: 30 * time.Second,
		ProbeCacheEnabled:    true,
		ProbeCacheTTL:        168 * time.Hour,
	}
	if *config != *want {
		t.Errorf("LoadConfig() = %+v, want %+v", *config, *want)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("PROXY_WORKERS", "2")
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	config, err := LoadConfig(noEnvFile(t))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != 9000 {
		t.Errorf("Port = %d, want 9000", config.Port)
	}
	if config.MetricsEnabled {
		t.Error("Expected MetricsEnabled=false")
	}
	if config.ProxyWorkers != 2 {
		t.Errorf("ProxyWorkers = %d, want 2", config.ProxyWorkers)
	}
	if config.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", config.FFmpegPath)
	}
	if config.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 3s", config.ShutdownTimeout)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORT", "9100")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9200\nPROXY_WORKERS=3\nLOG_DIR=/var/log/frameflow\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	config, err := LoadConfig(envFile)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != 9100 {
		t.Errorf("Port = %d, want 9100 (environment wins over .env)", config.Port)
	}
	if config.ProxyWorkers != 3 {
		t.Errorf("ProxyWorkers = %d, want 3", config.ProxyWorkers)
	}
	if config.LogDir != "/var/log/frameflow" {
		t.Errorf("LogDir = %q", config.LogDir)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, wantErr: "PORT"},
		{name: "metrics port clashes", env: map[string]string{"PORT": "9000", "METRICS_PORT": "9000"}, wantErr: "METRICS_PORT"},
		{name: "bind addr not an IP", env: map[string]string{"BIND_ADDR": "localhost"}, wantErr: "BIND_ADDR"},
		{name: "too many workers", env: map[string]string{"PROXY_WORKERS": "500"}, wantErr: "PROXY_WORKERS"},
		{name: "port not a number", env: map[string]string{"PORT": "eighty"}, wantErr: "configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(noEnvFile(t))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error = %q, want it to mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestConfigAddr(t *testing.T) {
	config := &Config{BindAddr: "127.0.0.1", Port: 8765, MetricsPort: 9765}

	if got := config.Addr(); got != "127.0.0.1:8765" {
		t.Errorf("Addr() = %q", got)
	}
	if got := config.MetricsAddr(); got != "127.0.0.1:9765" {
		t.Errorf("MetricsAddr() = %q", got)
	}
}

func TestProbeCachePath(t *testing.T) {
	config := &Config{ProbeCacheDir: "/var/cache/ff"}
	if got, err := config.ProbeCachePath(); err != nil || got != "/var/cache/ff" {
		t.Errorf("ProbeCachePath() = %q, %v", got, err)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("HOME", "/tmp/home")
	config = &Config{}
	got, err := config.ProbeCachePath()
	if err != nil {
		t.Fatalf("ProbeCachePath() error = %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join("frameflow", "probe")) {
		t.Errorf("ProbeCachePath() = %q, want .../frameflow/probe", got)
	}
}

func TestRenderRouteTable(t *testing.T) {
	out := renderRouteTable([]RouteInfo{
		{Method: "GET", Path: "/api/metadata"},
		{Method: "POST", Path: "/api/proxy"},
		{Method: "GET", Path: "/frameflow/"},
		{Method: "GET", Path: "/healthz"},
	})

	for _, want := range []string{"GROUP", "api/metadata", "/api/proxy", "frameflow", "/healthz"} {
		if !strings.Contains(out, want) {
			t.Errorf("route table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "/api/metadata") > strings.Index(out, "/frameflow/") {
		t.Errorf("routes should be grouped in sorted order:\n%s", out)
	}
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		"Port":        "PORT",
		"MetricsPort": "METRICS_PORT",
		"FFprobePath": "FFPROBE_PATH",
		"Unknown":     "Unknown",
	}
	for field, want := range tests {
		if got := envName(field); got != want {
			t.Errorf("envName(%q) = %q, want %q", field, got, want)
		}
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/frameflow/", "frameflow"},
		{"/api/metadata", "api/metadata"},
		{"/api/project/save", "api/project"},
		{"/health", "health"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/metadata", nil).Methods("GET").Name("metadata")
	router.HandleFunc("/api/proxy", nil).Methods("POST", "OPTIONS")
	router.PathPrefix("/frameflow/").Handler(nil)

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}
	if len(routes) != 4 {
		t.Fatalf("Expected 4 routes, got %d: %+v", len(routes), routes)
	}
	if routes[0] != (RouteInfo{Method: "GET", Path: "/api/metadata", Name: "metadata"}) {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	if routes[3].Method != "*" || routes[3].Path != "/frameflow/" {
		t.Errorf("routes[3] = %+v, want prefix route with * method", routes[3])
	}
}

func TestCheckToolMissing(t *testing.T) {
	_, err := CheckTool(filepath.Join(t.TempDir(), "no-such-tool"))
	if err == nil {
		t.Error("Expected error for missing tool")
	}
}
