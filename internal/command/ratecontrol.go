package command

import (
	"fmt"

	"ffdash/internal/encodeconfig"
)

type comboKey struct {
	family  encodeconfig.CodecFamily
	backend encodeconfig.Backend
	mode    encodeconfig.RateControlMode
}

// encoderNames gives the -c:v value for each supported (codec family,
// backend) pair. This is the exhaustive dispatch table §9 calls for:
// adding a backend means adding rows here and to rateControlEmitters,
// nothing else.
var encoderNames = map[[2]string]string{
	{"vp9", "software"}: "libvpx-vp9",
	{"av1", "software"}: "libsvtav1",
	{"vp9", "vaapi"}:    "vp9_vaapi",
	{"av1", "vaapi"}:    "av1_vaapi",
	{"vp9", "qsv"}:      "vp9_qsv",
	{"av1", "qsv"}:      "av1_qsv",
	{"av1", "nvenc"}:    "av1_nvenc",
}

func encoderName(family encodeconfig.CodecFamily, backend encodeconfig.Backend) (string, bool) {
	name, ok := encoderNames[[2]string{string(family), string(backend)}]
	return name, ok
}

// rateControlEmitters implements the emission table of §4.2, reproduced
// verbatim. Each entry takes the resolved Config and the current pass Kind
// (relevant only to TwoPassVBR, whose flags differ between pass 1 and
// pass 2) and returns the flags to splice in after -c:v.
var rateControlEmitters = map[comboKey]func(cfg encodeconfig.Config, passKind Kind, passLogPath string) []string{
	{encodeconfig.CodecVP9, encodeconfig.BackendSoftware, encodeconfig.RateControlCQ}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		return []string{"-b:v", "0", "-crf", itoa(cfg.Quality)}
	},
	{encodeconfig.CodecVP9, encodeconfig.BackendSoftware, encodeconfig.RateControlCQCap}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		cap := fmt.Sprintf("%dk", cfg.MaxBitrateKbps)
		bufsize := fmt.Sprintf("%dk", 2*cfg.MaxBitrateKbps)
		return []string{"-crf", itoa(cfg.Quality), "-b:v", cap, "-maxrate", cap, "-bufsize", bufsize}
	},
	{encodeconfig.CodecVP9, encodeconfig.BackendSoftware, encodeconfig.RateControlTwoPassVBR}: func(cfg encodeconfig.Config, passKind Kind, passLogPath string) []string {
		target := fmt.Sprintf("%dk", cfg.TargetBitrateKbps)
		if passKind == First {
			return []string{"-b:v", target, "-pass", "1", "-passlogfile", passLogPath, "-an", "-f", "null"}
		}
		return []string{"-b:v", target, "-pass", "2", "-passlogfile", passLogPath}
	},
	{encodeconfig.CodecAV1, encodeconfig.BackendSoftware, encodeconfig.RateControlCQ}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		return []string{"-crf", itoa(cfg.Quality), "-b:v", "0"}
	},
	{encodeconfig.CodecAV1, encodeconfig.BackendSoftware, encodeconfig.RateControlTwoPassVBR}: func(cfg encodeconfig.Config, passKind Kind, passLogPath string) []string {
		target := fmt.Sprintf("%dk", cfg.TargetBitrateKbps)
		pass := "1"
		if passKind == Second {
			pass = "2"
		}
		flags := []string{"-b:v", target, "-pass", pass, "-passlogfile", passLogPath}
		if passKind == First {
			flags = append(flags, "-an", "-f", "null")
		}
		return flags
	},
	{encodeconfig.CodecVP9, encodeconfig.BackendVAAPI, encodeconfig.RateControlCQP}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		return []string{"-rc_mode", "CQP", "-global_quality", itoa(cfg.Quality), "-low_power", "1"}
	},
	{encodeconfig.CodecAV1, encodeconfig.BackendVAAPI, encodeconfig.RateControlCQP}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		return []string{"-rc_mode", "CQP", "-global_quality", itoa(cfg.Quality), "-low_power", "1"}
	},
	{encodeconfig.CodecVP9, encodeconfig.BackendQSV, encodeconfig.RateControlCQP}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		return qsvCQP(cfg)
	},
	{encodeconfig.CodecAV1, encodeconfig.BackendQSV, encodeconfig.RateControlCQP}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		return qsvCQP(cfg)
	},
	{encodeconfig.CodecAV1, encodeconfig.BackendNVENC, encodeconfig.RateControlCQ}: func(cfg encodeconfig.Config, _ Kind, _ string) []string {
		return []string{"-rc", "vbr", "-cq", itoa(cfg.Quality), "-b:v", "0"}
	},
}

func qsvCQP(cfg encodeconfig.Config) []string {
	flags := []string{"-global_quality", itoa(cfg.Quality)}
	if cfg.Preset != "" {
		flags = append(flags, "-preset", cfg.Preset)
	}
	return flags
}

func itoa(v int) string {
	return fmt.Sprintf("%d", v)
}
