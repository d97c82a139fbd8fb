package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
)

var textSubtitleCodecs = map[string]bool{
	"srt": true, "subrip": true, "ass": true, "ssa": true,
	"webvtt": true, "mov_text": true,
}

var imageSubtitleCodecs = map[string]bool{
	"dvd_subtitle": true, "dvdsub": true, "pgssub": true,
	"hdmv_pgs_subtitle": true, "dvb_subtitle": true,
}

func isWebmContainer(outputPath string) bool {
	return strings.EqualFold(filepath.Ext(outputPath), ".webm")
}

// mapAndStreamFlags emits the -map entries plus per-stream audio/subtitle
// codec selection for §4.2 steps 7 and 8.
func mapAndStreamFlags(input probe.Input, cfg encodeconfig.Config, outputPath string) []string {
	var flags []string

	flags = append(flags, "-map", "0:v:0")
	for range input.Audio {
		flags = append(flags, "-map", "0:a?")
	}

	switch cfg.Audio.Policy {
	case encodeconfig.AudioEncode:
		flags = append(flags, "-c:a", cfg.Audio.Codec)
		if cfg.Audio.BitrateKbps > 0 {
			flags = append(flags, "-b:a", fmt.Sprintf("%dk", cfg.Audio.BitrateKbps))
		}
		if cfg.Audio.Channels > 0 {
			flags = append(flags, "-ac", itoa(cfg.Audio.Channels))
		}
	default:
		flags = append(flags, "-c:a", "copy")
	}

	if cfg.Audio.SecondaryAC3 && len(input.Audio) > 0 {
		flags = append(flags, "-map", "0:a:0", "-c:a:1", "ac3")
		if cfg.Audio.SecondaryAC3BitrateKbps > 0 {
			flags = append(flags, "-b:a:1", fmt.Sprintf("%dk", cfg.Audio.SecondaryAC3BitrateKbps))
		}
	}

	webm := isWebmContainer(outputPath)
	for _, sub := range input.Subtitles {
		if imageSubtitleCodecs[strings.ToLower(sub.Codec)] {
			if webm {
				continue
			}
		}
		if !textSubtitleCodecs[strings.ToLower(sub.Codec)] && !imageSubtitleCodecs[strings.ToLower(sub.Codec)] {
			continue
		}
		flags = append(flags, "-map", fmt.Sprintf("0:%d", sub.Index))
	}
	if len(input.Subtitles) > 0 {
		flags = append(flags, "-c:s", "copy")
	}

	return flags
}
