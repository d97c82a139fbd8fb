package ffmpegprogress

import "testing"

func TestFeedAccumulatesUntilSentinel(t *testing.T) {
	p := NewParser()
	lines := []string{
		"frame=100",
		"fps=25.5",
		"bitrate=3400.2kbits/s",
		"total_size=1048576",
		"out_time_us=4000000",
		"speed=1.02x",
		"progress=continue",
	}
	var lastDone bool
	for i, line := range lines {
		s, done := p.Feed(line)
		if i < len(lines)-1 {
			if done {
				t.Fatalf("did not expect completion before sentinel, line %q", line)
			}
			continue
		}
		lastDone = done
		if !done {
			t.Fatalf("expected completion on sentinel line")
		}
		if s.FrameNumber != 100 {
			t.Errorf("FrameNumber = %d, want 100", s.FrameNumber)
		}
		if s.FPS != 25.5 {
			t.Errorf("FPS = %v, want 25.5", s.FPS)
		}
		if s.BitrateKbps != 3400.2 {
			t.Errorf("BitrateKbps = %v, want 3400.2", s.BitrateKbps)
		}
		if s.OutSizeBytes != 1048576 {
			t.Errorf("OutSizeBytes = %d, want 1048576", s.OutSizeBytes)
		}
		if s.OutTimeMicros != 4000000 {
			t.Errorf("OutTimeMicros = %d, want 4000000", s.OutTimeMicros)
		}
		if s.SpeedX != 1.02 {
			t.Errorf("SpeedX = %v, want 1.02", s.SpeedX)
		}
	}
	if !lastDone {
		t.Fatal("expected the final line to complete the block")
	}
}

func TestFeedIgnoresUnknownKeys(t *testing.T) {
	p := NewParser()
	p.Feed("frame=1")
	p.Feed("dup_frames=0")
	p.Feed("drop_frames=0")
	p.Feed("some_future_key=whatever")
	sample, done := p.Feed("progress=continue")
	if !done {
		t.Fatal("expected sentinel to complete block")
	}
	if sample.FrameNumber != 1 {
		t.Errorf("FrameNumber = %d, want 1", sample.FrameNumber)
	}
}

func TestFeedCarriesForwardMissingKeysAcrossSamples(t *testing.T) {
	p := NewParser()
	p.Feed("frame=1")
	p.Feed("fps=10")
	first, done := p.Feed("progress=continue")
	if !done || first.FrameNumber != 1 || first.FPS != 10 {
		t.Fatalf("unexpected first sample: %+v done=%v", first, done)
	}

	// Second block omits fps entirely; it should carry forward from the
	// previous sample rather than reset to zero.
	p.Feed("frame=2")
	second, done := p.Feed("progress=continue")
	if !done {
		t.Fatal("expected second block to complete")
	}
	if second.FrameNumber != 2 {
		t.Errorf("FrameNumber = %d, want 2", second.FrameNumber)
	}
	if second.FPS != 10 {
		t.Errorf("FPS = %v, want carried-forward 10", second.FPS)
	}
}

func TestFeedTreatsNAAsMissing(t *testing.T) {
	p := NewParser()
	p.Feed("bitrate=N/A")
	p.Feed("speed=N/A")
	p.Feed("frame=5")
	sample, done := p.Feed("progress=continue")
	if !done {
		t.Fatal("expected sentinel to complete block")
	}
	if sample.BitrateKbps != 0 {
		t.Errorf("BitrateKbps = %v, want 0 for N/A", sample.BitrateKbps)
	}
	if sample.SpeedX != 0 {
		t.Errorf("SpeedX = %v, want 0 for N/A", sample.SpeedX)
	}
	if sample.FrameNumber != 5 {
		t.Errorf("FrameNumber = %d, want 5", sample.FrameNumber)
	}
}

func TestSentinelRecognizesEndAndContinue(t *testing.T) {
	if is, ended := Sentinel("progress=continue"); !is || ended {
		t.Errorf("progress=continue: is=%v ended=%v, want is=true ended=false", is, ended)
	}
	if is, ended := Sentinel("progress=end"); !is || !ended {
		t.Errorf("progress=end: is=%v ended=%v, want is=true ended=true", is, ended)
	}
	if is, _ := Sentinel("frame=5"); is {
		t.Error("frame=5 should not be a sentinel")
	}
}
