package vmaf

import (
	"encoding/json"
	"os"

	"ffdash/internal/services"
)

// pooledLog mirrors the fields of libvmaf's JSON log this package reads;
// most of the log (per-frame metrics, params) is ignored.
type pooledLog struct {
	PooledMetrics struct {
		VMAF struct {
			Mean float64 `json:"mean"`
		} `json:"vmaf"`
	} `json:"pooled_metrics"`
}

// ReadPooledScore extracts pooled_metrics.vmaf.mean from a libvmaf JSON log.
func ReadPooledScore(logPath string) (float64, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "vmaf", "read-log", logPath, err)
	}
	var parsed pooledLog
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "vmaf", "parse-log", logPath, err)
	}
	return parsed.PooledMetrics.VMAF.Mean, nil
}
