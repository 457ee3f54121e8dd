// Package mediatypes holds the extension to content-type table used by the
// frameflow resource protocol.
//
// The table is fixed: png, jpg/jpeg, mp4, mp3 and wav map to their usual MIME
// types and every other extension (or none at all) is served as
// application/octet-stream.
//
//	mime := mediatypes.MimeTypeForPath("/clips/Intro.MP4") // "video/mp4"
//
// Extensions are compared lower-cased and without the leading dot.
package mediatypes
