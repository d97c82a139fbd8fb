package command

import "fmt"

// buildVMAFCompare produces the two-input libvmaf comparison invocation
// used by the calibrator to score a calibration sample against the
// original window it was cut from. It writes a JSON log with
// pooled_metrics.vmaf.mean and discards the transcoded output.
func buildVMAFCompare(pass Pass) ([]string, error) {
	if pass.VMAFReferencePath == "" || pass.VMAFDistortedPath == "" || pass.VMAFLogPath == "" {
		return nil, fmt.Errorf("command: vmaf compare pass requires reference, distorted, and log paths")
	}
	subsample := pass.VMAFSubsample
	if subsample <= 0 {
		subsample = 1
	}

	filter := fmt.Sprintf(
		"[0:v]setpts=PTS-STARTPTS[dist];[1:v]setpts=PTS-STARTPTS[ref];[dist][ref]libvmaf=log_path=%s:log_fmt=json:n_subsample=%d",
		pass.VMAFLogPath, subsample,
	)

	return []string{
		"-i", pass.VMAFDistortedPath,
		"-i", pass.VMAFReferencePath,
		"-lavfi", filter,
		"-f", "null",
		"-",
	}, nil
}
