// Package probe reads media metadata (frame size and duration) with ffprobe.
//
// ffprobe must be installed; the binary can be overridden with FFPROBE_PATH.
// Errors are prefixed with "ffprobe failed:".
//
// CachedProber keeps successful results in a Badger database keyed by path,
// size and modification time, so scrubbing back to a clip does not rerun
// ffprobe.
package probe
