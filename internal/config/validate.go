package config

import (
	"fmt"
	"strings"
)

var validCodecFamilies = map[string]bool{"vp9": true, "av1": true}
var validBackends = map[string]bool{"software": true, "qsv": true, "vaapi": true, "nvenc": true}
var validRateControlModes = map[string]bool{"cq": true, "cqcap": true, "twopass_vbr": true, "cbr": true, "cqp": true}
var validPixelFormatPolicies = map[string]bool{"auto": true, "fixed": true}
var validAudioPolicies = map[string]bool{"copy": true, "encode": true}

// Validate checks structural correctness of the configuration. Domain-level
// rejection of unsupported (backend, mode) combinations happens later, in
// the command builder, since that decision needs the full backend/mode
// dispatch table rather than a flat allow-list.
func (c *Config) Validate() error {
	if c.Scheduler.Workers <= 0 {
		return fmt.Errorf("scheduler.workers must be positive, got %d", c.Scheduler.Workers)
	}
	seen := make(map[string]bool, len(c.Profiles))
	for i := range c.Profiles {
		if err := c.Profiles[i].validate(); err != nil {
			return fmt.Errorf("profiles[%d] %q: %w", i, c.Profiles[i].Name, err)
		}
		if seen[c.Profiles[i].Name] {
			return fmt.Errorf("duplicate profile name %q", c.Profiles[i].Name)
		}
		seen[c.Profiles[i].Name] = true
	}
	return nil
}

func (p *Profile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	family := strings.ToLower(strings.TrimSpace(p.CodecFamily))
	if !validCodecFamilies[family] {
		return fmt.Errorf("codec_family %q is not one of vp9, av1", p.CodecFamily)
	}
	backend := strings.ToLower(strings.TrimSpace(p.Backend))
	if !validBackends[backend] {
		return fmt.Errorf("backend %q is not one of software, qsv, vaapi, nvenc", p.Backend)
	}
	mode := strings.ToLower(strings.TrimSpace(p.RateControlMode))
	if !validRateControlModes[mode] {
		return fmt.Errorf("rate_control_mode %q is not one of cq, cqcap, twopass_vbr, cbr, cqp", p.RateControlMode)
	}
	if p.PixelFormatPolicy != "" && !validPixelFormatPolicies[strings.ToLower(p.PixelFormatPolicy)] {
		return fmt.Errorf("pixel_format_policy %q is not one of auto, fixed", p.PixelFormatPolicy)
	}
	if p.AudioPolicy != "" && !validAudioPolicies[strings.ToLower(p.AudioPolicy)] {
		return fmt.Errorf("audio_policy %q is not one of copy, encode", p.AudioPolicy)
	}
	if p.AutoVMAF.Enabled {
		if p.AutoVMAF.TargetScore <= 0 || p.AutoVMAF.TargetScore > 100 {
			return fmt.Errorf("auto_vmaf.target_score must be in (0, 100]")
		}
		if p.AutoVMAF.MaxAttempts <= 0 {
			return fmt.Errorf("auto_vmaf.max_attempts must be positive")
		}
		if p.AutoVMAF.WindowSeconds <= 0 {
			return fmt.Errorf("auto_vmaf.window_seconds must be positive")
		}
		if p.AutoVMAF.QualityStep <= 0 {
			return fmt.Errorf("auto_vmaf.quality_step must be positive")
		}
	}
	return nil
}
