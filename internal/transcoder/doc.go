// Package transcoder generates editing proxies using FFmpeg.
//
// A proxy is a 540p H.264 copy of a source clip, encoded with the
// ultrafast preset so the editor can scrub large footage smoothly:
//
//	ffmpeg -i in -vf scale=-2:540 -c:v libx264 -preset ultrafast -crf 28 -y out
//
// Concurrent encodes are bounded by a workers.Limiter. Running processes are
// tracked so Cleanup can kill them on shutdown.
//
// FFmpeg must be installed and available in PATH, or configured with
// FFMPEG_PATH.
package transcoder
