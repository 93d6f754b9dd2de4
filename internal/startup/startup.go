package startup

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"media-board/internal/logging"
	"media-board/internal/memory"
	"media-board/internal/thumbnail"
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

// LogMemoryConfig logs the outcome of memory.ConfigureFromEnv and the
// resulting decode ceiling.
func LogMemoryConfig(result memory.ConfigResult, decodeLimit int64) {
	section("MEMORY")
	switch result.Source {
	case "GOMEMLIMIT":
		logging.Info("  GOMEMLIMIT:        %s (from environment)", memory.FormatBytes(result.GoMemLimit))
	case "MEMORY_LIMIT":
		logging.Info("  GOMEMLIMIT:        %s (%.0f%% of %s)", memory.FormatBytes(result.GoMemLimit),
			result.Ratio*100, memory.FormatBytes(result.ContainerLimit))
	default:
		logging.Info("  GOMEMLIMIT:        not configured")
	}
	logging.Info("  Decode ceiling:    %s", memory.FormatBytes(decodeLimit))
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	section("DATABASE INITIALIZATION")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogThumbnailInit logs the selected engine and the external tools found.
func LogThumbnailInit(engine string, tools []thumbnail.ToolStatus) {
	section("THUMBNAIL ENGINE")
	logging.Info("  Engine: %s", engine)
	for _, t := range tools {
		if t.Available {
			logging.Info("  [OK] %-10s %s", t.Name, t.Command)
		} else {
			logging.Info("  [--] %-10s %s", t.Name, t.Detail)
		}
	}
}

// LogExtensions logs the built extension set in dispatch order.
func LogExtensions(ids []string) {
	section("EXTENSIONS")
	logging.Info("  %s", strings.Join(ids, ", "))
}

// GetRoutes lists every method/path pair registered on router. Routes
// without a method matcher are reported with method "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tmpl, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		routes = append(routes, lo.Map(methods, func(m string, _ int) RouteInfo {
			return RouteInfo{Method: m, Path: tmpl, Name: route.GetName()}
		})...)
		return nil
	})
	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes, grouped, at debug level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	section("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		groups := lo.GroupBy(routes, func(r RouteInfo) string { return getRouteGroup(r.Path) })
		names := lo.Keys(groups)
		sort.Strings(names)

		for _, group := range names {
			logging.Debug("  [%s]", lo.Ternary(group == "", "root", group))
			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
		}
	}

	if logHealthChecks {
		logging.Info("  Health check logging: ON")
	} else {
		logging.Info("  Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup names the group a route is listed under: the first path
// segment, or the first two for anything below /api.
func getRouteGroup(path string) string {
	head, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if head != "api" || rest == "" {
		return head
	}
	sub, _, _ := strings.Cut(rest, "/")
	return head + "/" + sub
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED in %v", config.StartupDuration)
	base := "http://0.0.0.0:" + config.Port
	logging.Info("  Upload:   POST %s/api/upload", base)
	logging.Info("  Images:   GET  %s/api/image/{id}", base)
	logging.Info("  Health:   GET  %s/health", base)
	if config.MetricsEnabled {
		logging.Info("  Metrics:  GET  http://0.0.0.0:%s/metrics", config.MetricsPort)
	}
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section("SHUTDOWN INITIATED (received %s)", signal)
}

// ShutdownStep runs one stage of shutdown, logging its outcome. A failing
// stage is logged and does not stop the remaining ones.
func ShutdownStep(name string, stop func() error) {
	logging.Debug("  stopping %s...", name)
	if err := stop(); err != nil {
		logging.Warn("  [FAIL] %s: %v", name, err)
		return
	}
	logging.Info("  [OK] %s stopped", name)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

const rule = "------------------------------------------------------------"

// section starts a titled block of startup output.
func section(format string, args ...interface{}) {
	logging.Info("")
	logging.Info(rule)
	logging.Info(format, args...)
	logging.Info(rule)
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
                    _ _            _                         _
 _ __ ___   ___  __| (_) __ _     | |__   ___   __ _ _ __ __| |
| '_ ' _ \ / _ \/ _' | |/ _' |____| '_ \ / _ \ / _' | '__/ _' |
| | | | | |  __/ (_| | | (_| |____| |_) | (_) | (_| | | | (_| |
|_| |_| |_|\___|\__,_|_|\__,_|    |_.__/ \___/ \__,_|_|  \__,_|

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	section("SYSTEM INFORMATION")
	logging.Info("  %s %s/%s, %d CPUs, GOMAXPROCS=%d",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), runtime.GOMAXPROCS(0))

	wd, _ := os.Getwd()
	host, _ := os.Hostname()
	logging.Debug("  host=%s wd=%s", host, wd)
}

// prepareDir makes sure dir exists as a directory and that the process can
// create files in it.
func prepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		logging.Warn("could not remove probe file %s: %v", name, err)
	}
	return nil
}
