package deps

import (
	"fmt"
	"os"
	"strings"
)

// DefaultVAAPIDevicePaths mirrors the config package's own default so a
// caller that hasn't loaded config yet still probes a sensible set of
// render nodes.
var DefaultVAAPIDevicePaths = []string{"/dev/dri/renderD128", "/dev/dri/renderD129"}

// HardwareDevice reports whether a candidate render node exists and is
// usable, alongside the resolved path if so.
type HardwareDevice struct {
	Path      string
	Available bool
	Detail    string
}

// DetectVAAPIDevice searches candidatePaths in order and returns the first
// one that exists. This is the same "search an ordered candidate list,
// report the first hit" shape as CheckBinaries, generalized from PATH
// lookup to filesystem device probing.
func DetectVAAPIDevice(candidatePaths []string) HardwareDevice {
	if len(candidatePaths) == 0 {
		candidatePaths = DefaultVAAPIDevicePaths
	}
	for _, path := range candidatePaths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return HardwareDevice{Path: path, Available: true}
	}
	return HardwareDevice{
		Detail: fmt.Sprintf("no render node found among %s", strings.Join(candidatePaths, ":")),
	}
}

// DetectQSVDevice reuses the VAAPI search: on Linux, Quick Sync also
// exposes itself as a DRM render node and is driven through the same VAAPI
// device path once the intel-media-driver is installed.
func DetectQSVDevice(candidatePaths []string) HardwareDevice {
	return DetectVAAPIDevice(candidatePaths)
}
