// Package command builds the ffmpeg argument vector for a job.
//
// Build is a pure function of (Input, EncodeConfig, Pass, output path): it
// never touches the filesystem or a subprocess. The rate-control emission
// table (ratecontrol.go) and the encoder name table (also ratecontrol.go)
// together form the backend dispatch surface described in the design
// notes; adding a backend means adding rows to both, nothing else.
package command
