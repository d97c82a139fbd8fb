package command

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
)

func sdrInput() probe.Input {
	return probe.Input{
		Path:        "/videos/clip.mp4",
		Duration:    5,
		Width:       1920,
		Height:      1080,
		PixelFormat: "yuv420p",
		BitDepth:    8,
		HDR:         probe.HDRNone,
	}
}

func TestBuildSoftwareVP9CQ(t *testing.T) {
	input := sdrInput()
	cfg := encodeconfig.Config{
		CodecFamily:     encodeconfig.CodecVP9,
		Backend:         encodeconfig.BackendSoftware,
		RateControlMode: encodeconfig.RateControlCQ,
		Quality:         31,
	}
	args, err := Build(input, cfg, NewSingle(), "/videos/out.webm")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-c:v libvpx-vp9") {
		t.Errorf("expected libvpx-vp9 encoder, got %q", joined)
	}
	if !strings.Contains(joined, "-b:v 0 -crf 31") {
		t.Errorf("expected CQ flags, got %q", joined)
	}
	if args[len(args)-1] != "/videos/out.webm" {
		t.Errorf("expected output path last, got %q", args[len(args)-1])
	}
}

func TestBuildHardwareVAAPICQP(t *testing.T) {
	input := sdrInput()
	cfg := encodeconfig.Config{
		CodecFamily:        encodeconfig.CodecVP9,
		Backend:            encodeconfig.BackendVAAPI,
		RateControlMode:    encodeconfig.RateControlCQP,
		Quality:            100,
		HardwareDevicePath: "/dev/dri/renderD128",
	}
	args, err := Build(input, cfg, NewSingle(), "/videos/out.mp4")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-init_hw_device vaapi=va:/dev/dri/renderD128",
		"-hwaccel vaapi",
		"-hwaccel_output_format vaapi",
		"-c:v vp9_vaapi",
		"-low_power 1",
		"-rc_mode CQP",
		"-global_quality 100",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
}

func TestBuildTwoPassSkipsMappingOnPassOne(t *testing.T) {
	input := sdrInput()
	cfg := encodeconfig.Config{
		CodecFamily:       encodeconfig.CodecVP9,
		Backend:           encodeconfig.BackendSoftware,
		RateControlMode:   encodeconfig.RateControlTwoPassVBR,
		TargetBitrateKbps: 2000,
	}
	pass1, err := Build(input, cfg, NewFirst("/tmp/job/pass"), "ignored")
	if err != nil {
		t.Fatalf("Build pass1: %v", err)
	}
	joined1 := strings.Join(pass1, " ")
	for _, want := range []string{"-pass 1", "-an", "-f null", nullSink} {
		if !strings.Contains(joined1, want) {
			t.Errorf("pass1: expected %q in %q", want, joined1)
		}
	}

	pass2, err := Build(input, cfg, NewSecond("/tmp/job/pass"), "/videos/out.webm")
	if err != nil {
		t.Fatalf("Build pass2: %v", err)
	}
	joined2 := strings.Join(pass2, " ")
	if !strings.Contains(joined2, "-pass 2") {
		t.Errorf("pass2: expected -pass 2 in %q", joined2)
	}
	if !strings.HasSuffix(joined2, "/videos/out.webm") {
		t.Errorf("pass2: expected output path at end, got %q", joined2)
	}
}

func TestBuildUnsupportedCombination(t *testing.T) {
	input := sdrInput()
	cfg := encodeconfig.Config{
		CodecFamily:     encodeconfig.CodecVP9,
		Backend:         encodeconfig.BackendQSV,
		RateControlMode: encodeconfig.RateControlCQ, // only CQP is in the table for QSV
	}
	_, err := Build(input, cfg, NewSingle(), "/videos/out.mp4")
	if err == nil {
		t.Fatal("expected UnsupportedCombination error")
	}
	if !errors.Is(err, ErrUnsupportedCombination) {
		t.Fatalf("expected ErrUnsupportedCombination, got %v", err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	input := sdrInput()
	cfg := encodeconfig.Config{
		CodecFamily:     encodeconfig.CodecAV1,
		Backend:         encodeconfig.BackendNVENC,
		RateControlMode: encodeconfig.RateControlCQ,
		Quality:         24,
	}
	first, err := Build(input, cfg, NewSingle(), "/videos/out.mp4")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(input, cfg, NewSingle(), "/videos/out.mp4")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Build was not deterministic:\n%v\n%v", first, second)
	}
}

func TestBuildAdditionalArgsPlacedBeforeOutput(t *testing.T) {
	input := sdrInput()
	cfg := encodeconfig.Config{
		CodecFamily:     encodeconfig.CodecVP9,
		Backend:         encodeconfig.BackendSoftware,
		RateControlMode: encodeconfig.RateControlCQ,
		Quality:         31,
		AdditionalArgs:  []string{"-metadata", "title=custom"},
	}
	args, err := Build(input, cfg, NewSingle(), "/videos/out.webm")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n := len(args)
	if n < 4 {
		t.Fatalf("unexpectedly short command: %v", args)
	}
	if args[n-1] != "/videos/out.webm" {
		t.Fatalf("expected output path last, got %q", args[n-1])
	}
	if args[n-2] != "title=custom" || args[n-3] != "-metadata" {
		t.Fatalf("expected additional args verbatim before output path, got %v", args[n-4:])
	}
}

func TestBuildHDRHardwareTonemapDownloadsAndReuploads(t *testing.T) {
	input := sdrInput()
	input.HDR = probe.HDRPQ
	input.BitDepth = 10
	cfg := encodeconfig.Config{
		CodecFamily:     encodeconfig.CodecAV1,
		Backend:         encodeconfig.BackendVAAPI,
		RateControlMode: encodeconfig.RateControlCQP,
		Quality:         100,
		Filter:          encodeconfig.FilterPolicy{TonemapHDR: true},
	}
	args, err := Build(input, cfg, NewSingle(), "/videos/out.mp4")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "hwdownload") {
		t.Errorf("expected hwdownload in filter chain, got %q", joined)
	}
	if !strings.Contains(joined, "tonemap=hable") {
		t.Errorf("expected hable tonemap in filter chain, got %q", joined)
	}
	if !strings.Contains(joined, "hwupload") {
		t.Errorf("expected re-upload in filter chain, got %q", joined)
	}
}

func TestBuildVMAFCompareRequiresPaths(t *testing.T) {
	_, err := Build(sdrInput(), encodeconfig.Config{}, NewVmafCompare("", "", "", 1), "ignored")
	if err == nil {
		t.Fatal("expected error for missing vmaf compare paths")
	}
}

func TestBuildVMAFCompareEmitsLibvmafFilter(t *testing.T) {
	args, err := Build(sdrInput(), encodeconfig.Config{}, NewVmafCompare("/tmp/ref.mkv", "/tmp/dist.mkv", "/tmp/vmaf.json", 4), "ignored")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "libvmaf=log_path=/tmp/vmaf.json:log_fmt=json:n_subsample=4") {
		t.Errorf("expected libvmaf filter, got %q", joined)
	}
}
