// Package handlers provides the JSON API served alongside the frameflow://
// resource route.
//
// It includes handlers for:
//   - Media metadata (ffprobe) and file info
//   - Proxy generation (ffmpeg)
//   - Project saving
//   - Available memory
//   - .cube LUT parsing
//   - Health checks and version info
package handlers
