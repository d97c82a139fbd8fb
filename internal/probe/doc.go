// Package probe inspects input media files with ffprobe and produces the
// Input descriptor consumed by the command builder, calibrator, and runner.
//
// Primary entry point:
//   - Probe: runs ffprobe with a hard timeout and classifies bit depth and
//     HDR transfer from the raw stream metadata.
package probe
