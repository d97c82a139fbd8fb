// Package vmaf calibrates a job's quality knob before the full-file
// encode: it samples a few short windows of the source, measures VMAF
// against the original, and narrows the knob until the target score is
// met or the iteration budget runs out.
package vmaf
