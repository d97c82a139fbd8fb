package encodeconfig

import (
	"testing"

	"ffdash/internal/config"
)

func TestFromProfileSnapshotsFields(t *testing.T) {
	p := config.Profile{
		Name:            "default",
		CodecFamily:     "VP9",
		Backend:         "Software",
		RateControlMode: "cq",
		Quality:         31,
		Preset:          "good",
		RowMT:           true,
		AutoAltRef:      true,
		AudioPolicy:     "copy",
	}

	cfg, err := FromProfile(p)
	if err != nil {
		t.Fatalf("FromProfile: %v", err)
	}
	if cfg.CodecFamily != CodecVP9 {
		t.Errorf("CodecFamily = %q, want vp9", cfg.CodecFamily)
	}
	if cfg.Backend != BackendSoftware {
		t.Errorf("Backend = %q, want software", cfg.Backend)
	}
	if cfg.Audio.Policy != AudioCopy {
		t.Errorf("Audio.Policy = %q, want copy", cfg.Audio.Policy)
	}
	if !cfg.Parallelism.RowMT {
		t.Error("expected RowMT to carry through")
	}
}

func TestFromProfileRejectsUnsupportedCodecBackend(t *testing.T) {
	p := config.Profile{
		Name:            "bogus",
		CodecFamily:     "vp9",
		Backend:         "nvenc", // VP9 has no NVENC quality range in the table
		RateControlMode: "cq",
	}
	if _, err := FromProfile(p); err == nil {
		t.Fatal("expected error for vp9+nvenc, which has no quality knob range")
	}
}

func TestFromProfileClampsOutOfRangeQuality(t *testing.T) {
	p := config.Profile{
		Name:            "clamp",
		CodecFamily:     "av1",
		Backend:         "qsv",
		RateControlMode: "cq",
		Quality:         999,
	}
	cfg, err := FromProfile(p)
	if err != nil {
		t.Fatalf("FromProfile: %v", err)
	}
	if cfg.Quality != 51 {
		t.Fatalf("Quality = %d, want clamped to 51", cfg.Quality)
	}
}

func TestFromProfileCopiesAdditionalArgsDefensively(t *testing.T) {
	original := []string{"-x264-params", "foo"}
	p := config.Profile{
		Name:            "args",
		CodecFamily:     "vp9",
		Backend:         "software",
		RateControlMode: "cq",
		AdditionalArgs:  original,
	}
	cfg, err := FromProfile(p)
	if err != nil {
		t.Fatalf("FromProfile: %v", err)
	}
	cfg.AdditionalArgs[0] = "mutated"
	if original[0] != "-x264-params" {
		t.Fatal("FromProfile did not defensively copy AdditionalArgs")
	}
}
