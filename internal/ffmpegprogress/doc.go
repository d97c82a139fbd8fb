// Package ffmpegprogress turns ffmpeg's `-progress -` stdout stream into
// queue.ProgressSample values.
//
// Primary entry points:
//   - Parser.Feed: stateful line-at-a-time accumulator, one line in.
//   - Stream: reads a full io.Reader and delivers samples on a bounded,
//     coalescing channel.
package ffmpegprogress
