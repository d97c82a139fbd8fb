// Package probe inspects an input media file with ffprobe and produces the
// Input descriptor that the command builder, calibrator, and runner all
// consume. It never mutates or transcodes; it only reads metadata.
package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ffdash/internal/media/ffprobe"
)

// HDRTransfer identifies the transfer characteristic of a video stream.
type HDRTransfer string

const (
	HDRNone HDRTransfer = "sdr"
	HDRPQ   HDRTransfer = "pq"
	HDRHLG  HDRTransfer = "hlg"
)

// AudioStream describes one audio stream of an Input.
type AudioStream struct {
	Index      int
	Codec      string
	Channels   int
	SampleRate int
}

// SubtitleStream describes one subtitle stream of an Input.
type SubtitleStream struct {
	Index    int
	Codec    string
	Language string
}

// Input is the immutable descriptor produced by Probe for a single file.
type Input struct {
	Path        string
	Container   string
	Duration    float64
	Width       int
	Height      int
	FrameRate   float64
	PixelFormat string
	BitDepth    int
	HDR         HDRTransfer
	Audio       []AudioStream
	Subtitles   []SubtitleStream
}

// bitDepthByPixFmt maps known 10/12-bit pixel formats to their bit depth.
// Anything absent from this table is assumed to be 8-bit.
var bitDepthByPixFmt = map[string]int{
	"yuv420p10le": 10,
	"yuv422p10le": 10,
	"yuv444p10le": 10,
	"p010le":      10,
	"p010":        10,
	"yuv420p12le": 12,
	"yuv422p12le": 12,
	"yuv444p12le": 12,
	"p012le":      12,
}

// Probe runs ffprobe against path with a hard timeout and returns the Input
// descriptor. It fails with a *Error wrapping ErrMissingFile, ErrNoMetadata,
// or ErrZeroDuration on the documented failure conditions.
func Probe(ctx context.Context, ffprobeBinary, path string, timeout time.Duration) (Input, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return Input{}, newError(path, ErrMissingFile, err)
	}

	videoStream, ok := result.FirstVideoStream()
	if !ok {
		return Input{}, newError(path, ErrNoMetadata, fmt.Errorf("no video stream found"))
	}

	duration := result.DurationSeconds()
	if duration <= 0 {
		duration = videoStream.StreamDurationSeconds()
	}
	if !(duration > 0) {
		return Input{}, newError(path, ErrZeroDuration, fmt.Errorf("no usable duration in format or video stream"))
	}

	input := Input{
		Path:        path,
		Container:   result.Format.FormatName,
		Duration:    duration,
		Width:       videoStream.Width,
		Height:      videoStream.Height,
		FrameRate:   parseFrameRate(videoStream.RFrameRate),
		PixelFormat: videoStream.PixFmt,
		BitDepth:    bitDepth(videoStream.PixFmt),
		HDR:         hdrTransfer(videoStream.ColorTransfer),
	}

	for _, s := range result.AudioStreams() {
		input.Audio = append(input.Audio, AudioStream{
			Index:      s.Index,
			Codec:      s.CodecName,
			Channels:   s.Channels,
			SampleRate: atoiOrZero(s.SampleRate),
		})
	}
	for _, s := range result.SubtitleStreams() {
		input.Subtitles = append(input.Subtitles, SubtitleStream{
			Index:    s.Index,
			Codec:    s.CodecName,
			Language: s.Tags.Language,
		})
	}

	return input, nil
}

// bitDepth maps a pixel format string to its bit depth, defaulting to 8.
func bitDepth(pixFmt string) int {
	if depth, ok := bitDepthByPixFmt[strings.ToLower(pixFmt)]; ok {
		return depth
	}
	return 8
}

// hdrTransfer classifies a color_transfer value into the SDR/PQ/HLG space.
func hdrTransfer(colorTransfer string) HDRTransfer {
	switch strings.ToLower(colorTransfer) {
	case "smpte2084":
		return HDRPQ
	case "arib-std-b67":
		return HDRHLG
	default:
		return HDRNone
	}
}

// parseFrameRate parses ffprobe's "num/den" rational frame rate strings.
func parseFrameRate(rFrameRate string) float64 {
	parts := strings.SplitN(rFrameRate, "/", 2)
	if len(parts) != 2 {
		return 0
	}
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
