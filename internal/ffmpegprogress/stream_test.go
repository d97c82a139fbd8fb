package ffmpegprogress

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStreamDeliversCompletedSamples(t *testing.T) {
	input := strings.Join([]string{
		"frame=1", "fps=10", "progress=continue",
		"frame=2", "fps=12", "progress=continue",
		"frame=3", "fps=15", "progress=end",
	}, "\n")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	samples := Stream(ctx, strings.NewReader(input))

	var got []int64
	for sample := range samples {
		got = append(got, sample.FrameNumber)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d: %v", len(got), got)
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected frames [1 2 3], got %v", got)
	}
}

func TestStreamClosesChannelWhenReaderExhausted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	samples := Stream(ctx, strings.NewReader("frame=1\nprogress=end\n"))

	select {
	case _, ok := <-samples:
		if !ok {
			t.Fatal("expected at least one sample before close")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sample")
	}

	select {
	case _, ok := <-samples:
		if ok {
			t.Fatal("expected channel to be closed after reader exhausted")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
