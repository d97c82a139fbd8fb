package command

import (
	"fmt"
	"strings"

	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
)

const tonemapHable = "zscale=t=linear:npl=100,format=gbrpf32le,zscale=p=bt709,tonemap=tonemap=hable:desat=0,zscale=t=bt709:m=bt709:r=tv"

func isHardwareUploadBackend(backend encodeconfig.Backend) bool {
	return backend == encodeconfig.BackendVAAPI || backend == encodeconfig.BackendQSV
}

func hwUploadFilter(backend encodeconfig.Backend) string {
	switch backend {
	case encodeconfig.BackendVAAPI:
		return "format=nv12|vaapi,hwupload"
	case encodeconfig.BackendQSV:
		return "format=nv12,hwupload=extra_hw_frames=64"
	default:
		return ""
	}
}

func hwScaleFilter(backend encodeconfig.Backend, width, height int) string {
	switch backend {
	case encodeconfig.BackendVAAPI:
		return fmt.Sprintf("scale_vaapi=w=%d:h=%d", width, height)
	case encodeconfig.BackendQSV:
		return fmt.Sprintf("scale_qsv=w=%d:h=%d", width, height)
	default:
		return fmt.Sprintf("scale=%d:%d", width, height)
	}
}

// buildFilterChain implements §4.2's filter chain policy. It returns the
// joined filter graph for -vf, or "" when no filter is required.
func buildFilterChain(input probe.Input, cfg encodeconfig.Config, pixelFormat string) string {
	tonemapNeeded := input.HDR != probe.HDRNone && cfg.Filter.TonemapHDR
	scaleNeeded := cfg.Filter.ScaleWidth > 0 && cfg.Filter.ScaleHeight > 0
	hardware := isHardwareUploadBackend(cfg.Backend)

	var filters []string

	deinterlace := func() {
		if cfg.Filter.Deinterlace {
			filters = append(filters, "yadif=mode=1")
		}
	}

	switch {
	case hardware && tonemapNeeded:
		// Download the hardware-decoded frame to software, deinterlace,
		// tonemap, convert format, then re-upload for the hardware encoder.
		filters = append(filters, "hwdownload,format=nv12")
		deinterlace()
		filters = append(filters, fmt.Sprintf("%s,format=%s", tonemapHable, pixelFormat))
		if scaleNeeded {
			filters = append(filters, fmt.Sprintf("scale=%d:%d", cfg.Filter.ScaleWidth, cfg.Filter.ScaleHeight))
		}
		filters = append(filters, hwUploadFilter(cfg.Backend))

	case hardware:
		// Frames arrive already uploaded via -hwaccel_output_format; only
		// an explicit filter is needed for scaling, using the hardware
		// scaler so frames never leave the device.
		if scaleNeeded {
			filters = append(filters, hwScaleFilter(cfg.Backend, cfg.Filter.ScaleWidth, cfg.Filter.ScaleHeight))
		}

	default:
		// Software path (including NVENC, which decodes on the CPU here):
		// deinterlace, tonemap if needed, scale, then convert to the
		// resolved pixel format.
		deinterlace()
		if tonemapNeeded {
			filters = append(filters, tonemapHable)
		}
		if scaleNeeded {
			filters = append(filters, fmt.Sprintf("scale=%d:%d", cfg.Filter.ScaleWidth, cfg.Filter.ScaleHeight))
		}
		filters = append(filters, fmt.Sprintf("format=%s", pixelFormat))
	}

	return strings.Join(filters, ",")
}
