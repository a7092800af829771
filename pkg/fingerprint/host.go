package fingerprint

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/creack/pty"
)

// HostReader reads ambient attributes from the invoking terminal and host.
// When no terminal is attached (piped output, CI), the environment is
// considered unreadable and no fingerprint is produced.
type HostReader struct {
	Version  string
	StateDir string
}

func (h *HostReader) Snapshot() (Snapshot, bool) {
	size, err := pty.GetsizeFull(os.Stdout)
	if err != nil {
		size, err = pty.GetsizeFull(os.Stdin)
	}
	if err != nil {
		return Snapshot{}, false
	}

	return Snapshot{
		ScreenWidth:    int(size.Cols),
		ScreenHeight:   int(size.Rows),
		ColorDepth:     terminalColorDepth(),
		Timezone:       timezoneName(),
		Language:       languageTag(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		UserAgent:      hostUserAgent(h.Version),
		CookiesEnabled: dirWritable(h.StateDir),
		DoNotTrack:     envTruthy("SCOUT_DO_NOT_TRACK") || envTruthy("DO_NOT_TRACK"),
	}, true
}

func hostUserAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("scout/%s (%s; %s) %s", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func terminalColorDepth() int {
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		return 24
	}
	term := os.Getenv("TERM")
	switch {
	case strings.Contains(term, "256"):
		return 8
	case term != "":
		return 4
	default:
		return 1
	}
}

func timezoneName() string {
	if tz := strings.TrimSpace(os.Getenv("TZ")); tz != "" {
		return tz
	}
	zone, _ := time.Now().Zone()
	return zone
}

func languageTag() string {
	for _, name := range []string{"LC_ALL", "LANG"} {
		if lang := strings.TrimSpace(os.Getenv(name)); lang != "" {
			return lang
		}
	}
	return ""
}

func dirWritable(dir string) bool {
	if dir == "" {
		return false
	}
	f, err := os.CreateTemp(dir, ".probe-")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

func envTruthy(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
