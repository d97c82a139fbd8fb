// Package runner executes one ffmpeg invocation at a time: it spawns the
// subprocess, drains stdout through internal/ffmpegprogress, keeps a
// bounded tail of stderr for diagnostics, and enforces cooperative
// cancellation with a graceful-then-forceful shutdown. RunTwoPass chains
// two Run calls sharing a pass-log scratch file.
package runner
