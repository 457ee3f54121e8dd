package startup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"frameflow/internal/logging"
	"frameflow/internal/memory"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration. Fields are populated from the
// environment (optionally seeded from a .env file) and then validated.
type Config struct {
	BindAddr             string        `env:"BIND_ADDR,default=127.0.0.1" validate:"required,ip"`
	Port                 int           `env:"PORT,default=8765" validate:"min=1,max=65535"`
	MetricsPort          int           `env:"METRICS_PORT,default=9765" validate:"min=1,max=65535,nefield=Port"`
	MetricsEnabled       bool          `env:"METRICS_ENABLED,default=true"`
	LogDir               string        `env:"LOG_DIR"`
	LogStaticFiles       bool          `env:"LOG_STATIC_FILES,default=false"`
	LogHealthChecks      bool          `env:"LOG_HEALTH_CHECKS,default=true"`
	ProxyWorkers         int           `env:"PROXY_WORKERS,default=0" validate:"min=0,max=64"`
	FFmpegPath           string        `env:"FFMPEG_PATH,default=ffmpeg" validate:"required"`
	FFprobePath          string        `env:"FFPROBE_PATH,default=ffprobe" validate:"required"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s" validate:"gt=0s"`
	MemorySampleInterval time.Duration `env:"MEMORY_SAMPLE_INTERVAL,default=30s" validate:"gt=0s"`
	ProbeCacheEnabled    bool          `env:"PROBE_CACHE_ENABLED,default=true"`
	ProbeCacheDir        string        `env:"PROBE_CACHE_DIR"`
	ProbeCacheTTL        time.Duration `env:"PROBE_CACHE_TTL,default=168h" validate:"gt=0s"`
}

// Addr returns the application listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

// MetricsAddr returns the metrics listen address.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.MetricsPort)
}

// ProbeCachePath returns PROBE_CACHE_DIR, defaulting to frameflow/probe
// under the user cache directory.
func (c *Config) ProbeCachePath() (string, error) {
	if c.ProbeCacheDir != "" {
		return c.ProbeCacheDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("no user cache directory: %w", err)
	}
	return filepath.Join(base, "frameflow", "probe"), nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads and validates configuration. Variables from envFiles
// (default ".env") fill in anything not already set in the environment;
// missing files are ignored.
func LoadConfig(envFiles ...string) (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.Debug("  No env file at %s", f)
				continue
			}
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
		logging.Info("  Loaded env file: %s", f)
	}

	config := &Config{}
	if _, err := env.UnmarshalFromEnviron(config); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	logging.Info("  BIND_ADDR:           %s", config.BindAddr)
	logging.Info("  PORT:                %d", config.Port)
	logging.Info("  METRICS_PORT:        %d", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  LOG_DIR:             %s", valueOrNone(config.LogDir))
	logging.Info("  LOG_STATIC_FILES:    %v", config.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", config.LogHealthChecks)
	logging.Info("  PROXY_WORKERS:       %s", workersString(config.ProxyWorkers))
	logging.Info("  FFMPEG_PATH:         %s", config.FFmpegPath)
	logging.Info("  FFPROBE_PATH:        %s", config.FFprobePath)
	logging.Info("  PROBE_CACHE:         %s", probeCacheString(config))
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig checks config against its validate tags and reports every
// failing field by its environment variable name.
func ValidateConfig(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		if fe.Param() != "" {
			return fmt.Sprintf("%s (%s=%s, got %v)", envName(fe.StructField()), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s (%s, got %v)", envName(fe.StructField()), fe.Tag(), fe.Value())
	})
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// envName maps a Config field name to its environment variable.
func envName(field string) string {
	f, ok := reflect.TypeOf(Config{}).FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
	if name == "" {
		return field
	}
	return name
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func probeCacheString(c *Config) string {
	if !c.ProbeCacheEnabled {
		return "disabled"
	}
	return fmt.Sprintf("%s (ttl %s)", valueOrNone(c.ProbeCacheDir), c.ProbeCacheTTL)
}

func workersString(n int) string {
	if n <= 0 {
		return "auto"
	}
	return fmt.Sprint(n)
}

// LogMemoryConfig logs how the Go memory limit was configured.
func LogMemoryConfig(result memory.ConfigResult) {
	switch result.Source {
	case memory.SourceMemoryLimit:
		logging.Info("  Memory limit: %s (%.0f%% of MEMORY_LIMIT)", memory.FormatBytes(uint64(result.GoMemLimit)), result.Ratio*100)
	case memory.SourceGoMemLimit:
		logging.Info("  Memory limit: GOMEMLIMIT")
	default:
		logging.Debug("  Memory limit: not configured")
	}
}

// LogToolsInit logs media tool availability and returns the version line of
// each tool found, keyed by binary name. Missing tools are not fatal: only
// metadata and proxy endpoints depend on them.
func LogToolsInit(ffmpegPath, ffprobePath string) map[string]string {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MEDIA TOOLS")
	logging.Info("------------------------------------------------------------")

	versions := map[string]string{}
	for _, tool := range []struct{ name, key, path string }{
		{"FFmpeg", "ffmpeg", ffmpegPath},
		{"FFprobe", "ffprobe", ffprobePath},
	} {
		version, err := CheckTool(tool.path)
		if err != nil {
			logging.Warn("  %s check failed: %v", tool.name, err)
			continue
		}
		logging.Info("  [OK] %s: %s", tool.name, version)
		versions[tool.key] = version
	}
	return versions
}

// LogTranscoderInit logs the proxy encode concurrency.
func LogTranscoderInit(maxJobs int) {
	logging.Info("  Proxy encodes: up to %d concurrent", maxJobs)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Prefix routes have no method matcher
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes at debug level as a table
// grouped by their first path segment.
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		for line := range strings.Lines(renderRouteTable(routes)) {
			logging.Debug("    %s", strings.TrimRight(line, "\n"))
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Media request logging: ON")
	} else {
		logging.Info("    Media request logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// renderRouteTable formats routes as a borderless table, one group at a time.
func renderRouteTable(routes []RouteInfo) string {
	var buf strings.Builder

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Group", "Method", "Path"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")

	groups := lo.GroupBy(routes, func(r RouteInfo) string { return getRouteGroup(r.Path) })
	groupKeys := lo.Keys(groups)
	sort.Strings(groupKeys)

	for _, group := range groupKeys {
		label := group
		if label == "" {
			label = "root"
		}
		for _, route := range groups[group] {
			table.Append([]string{label, route.Method, route.Path})
		}
	}

	table.Render()
	return buf.String()
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	first := parts[0]

	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Addr            string
	MetricsAddr     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Media:         http://%s/frameflow/<path>", config.Addr)
	logging.Info("    API:           http://%s/api", config.Addr)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://%s/metrics", config.MetricsAddr)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
    ______                        ______
   / ____/________ _____ ___  ___/ ____/ /___ _      __
  / /_  / ___/ __ '/ __ '__ \/ _ \/ /_  / / __ \ | /| / /
 / __/ / /  / /_/ / / / / / /  __/ __/ / / /_/ / |/ |/ /
/_/   /_/   \__,_/_/ /_/ /_/\___/_/   /_/\____/|__/|__/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if stats, err := memory.Snapshot(); err == nil {
		logging.Info("  Memory:          %s available of %s",
			memory.FormatBytes(stats.Available), memory.FormatBytes(stats.Total))
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
	}

	logging.Info("")
}

// CheckTool runs "<binary> -version" and returns the first line of output.
func CheckTool(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH", binary)
	}
	logging.Debug("  %s path: %s", binary, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", binary, err)
	}

	first, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(first), nil
}
