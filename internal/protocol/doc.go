// Package protocol serves local media files through the frameflow:// scheme.
//
// An identifier such as frameflow:///home/me/clip%20one.mp4 names the file
// /home/me/clip one.mp4. Requests are answered in three stages:
//
//   - DecodePath strips the scheme prefix and percent-decodes the rest lossily
//   - ResolveRange interprets an optional "Range: bytes=S-E" header
//   - Responder.Respond stats, opens and reads the file into an Outcome
//
// An Outcome is a complete response: status, headers and an in-memory body.
// Handler binds the pipeline to HTTP in two forms:
//
//	GET /frameflow/<escaped path>
//	GET /frameflow?uri=<identifier>
//
// net/http refuses request paths holding a malformed escape, so only the
// query form delivers every identifier to DecodePath. HEAD is answered with
// headers only.
//
// # Status Codes
//
//	200  whole file, no usable Range header
//	206  byte range, Content-Range: bytes S-E/L
//	404  path does not exist, body "File not found"
//	416  inverted range after clamping, Content-Range: bytes */L
//	500  stat, open, seek or read failed, body is the error text
//
// Range bounds are clamped to the last byte, so "bytes=5000-" against a
// 100 byte file returns the final byte with 206. Full and partial responses
// carry Accept-Ranges: bytes and Access-Control-Allow-Origin: *.
//
// No path sanitization is performed; any file readable by the process can be
// served. The listener must stay bound to loopback.
package protocol
