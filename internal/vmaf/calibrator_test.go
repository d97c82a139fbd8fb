package vmaf

import (
	"context"
	"testing"

	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
)

func TestCalibrateSkipsWhenDisabled(t *testing.T) {
	cfg := encodeconfig.Config{
		CodecFamily:     encodeconfig.CodecVP9,
		Backend:         encodeconfig.BackendSoftware,
		RateControlMode: encodeconfig.RateControlCQ,
	}
	result, out, err := Calibrate(context.Background(), "ffmpeg", probe.Input{Path: "/videos/a.mkv", Duration: 100}, cfg, "job-1")
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if !result.Skipped {
		t.Fatal("expected calibration to be skipped when disabled")
	}
	if out.Quality != cfg.Quality {
		t.Fatal("expected config to pass through unchanged on skip")
	}
}

func TestCalibrateSkipsIncompatibleMode(t *testing.T) {
	cfg := encodeconfig.Config{
		CodecFamily:     encodeconfig.CodecVP9,
		Backend:         encodeconfig.BackendSoftware,
		RateControlMode: encodeconfig.RateControlTwoPassVBR,
		AutoVMAF:        encodeconfig.AutoVMAF{Enabled: true, TargetScore: 95},
	}
	result, _, err := Calibrate(context.Background(), "ffmpeg", probe.Input{Path: "/videos/a.mkv", Duration: 100}, cfg, "job-1")
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if !result.Skipped {
		t.Fatal("expected calibration to be skipped for an incompatible rate-control mode")
	}
}

func TestCompatibleModes(t *testing.T) {
	cases := []struct {
		mode    encodeconfig.RateControlMode
		backend encodeconfig.Backend
		want    bool
	}{
		{encodeconfig.RateControlCQ, encodeconfig.BackendSoftware, true},
		{encodeconfig.RateControlCQ, encodeconfig.BackendNVENC, true},
		{encodeconfig.RateControlCQCap, encodeconfig.BackendSoftware, true},
		{encodeconfig.RateControlCQCap, encodeconfig.BackendVAAPI, false},
		{encodeconfig.RateControlCQP, encodeconfig.BackendVAAPI, true},
		{encodeconfig.RateControlCQP, encodeconfig.BackendQSV, true},
		{encodeconfig.RateControlCQP, encodeconfig.BackendSoftware, false},
		{encodeconfig.RateControlTwoPassVBR, encodeconfig.BackendSoftware, false},
		{encodeconfig.RateControlCBR, encodeconfig.BackendVAAPI, false},
	}
	for _, c := range cases {
		cfg := encodeconfig.Config{RateControlMode: c.mode, Backend: c.backend}
		if got := compatible(cfg); got != c.want {
			t.Errorf("compatible(mode=%s, backend=%s) = %v, want %v", c.mode, c.backend, got, c.want)
		}
	}
}

func TestStepQualityDirection(t *testing.T) {
	if got := stepQuality(30, 2, true); got != 28 {
		t.Errorf("lowerIsBetter step = %d, want 28", got)
	}
	if got := stepQuality(30, 2, false); got != 32 {
		t.Errorf("higherIsBetter step = %d, want 32", got)
	}
	if got := stepQuality(30, 0, true); got != 29 {
		t.Errorf("zero step should default to 1, got %d", got)
	}
}
