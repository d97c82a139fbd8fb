// Command ffdash batch-transcodes a directory of video files against a
// named encoding profile: probe, optional VMAF calibration, encode, and a
// live table dashboard over the whole run.
package main
