package mediatypes

import (
	"slices"
	"testing"
)

func TestMimeTypeForPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "MP4 video", path: "/clips/a.mp4", want: "video/mp4"},
		{name: "PNG image", path: "/img/a.png", want: "image/png"},
		{name: "JPG image", path: "a.jpg", want: "image/jpeg"},
		{name: "JPEG image", path: "a.jpeg", want: "image/jpeg"},
		{name: "MP3 audio", path: "a.mp3", want: "audio/mpeg"},
		{name: "WAV audio", path: "a.wav", want: "audio/wav"},
		{name: "Uppercase extension", path: "/clips/INTRO.MP4", want: "video/mp4"},
		{name: "Unknown extension", path: "a.xyz", want: DefaultMimeType},
		{name: "No extension", path: "/clips/raw", want: DefaultMimeType},
		{name: "Trailing dot", path: "clip.", want: DefaultMimeType},
		{name: "Dot in directory only", path: "/v1.0/clip", want: DefaultMimeType},
		{name: "Known elsewhere but not here", path: "a.webm", want: DefaultMimeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MimeTypeForPath(tt.path); got != tt.want {
				t.Errorf("MimeTypeForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetFileType(t *testing.T) {
	tests := []struct {
		ext  string
		want FileType
	}{
		{"png", FileTypeImage},
		{"jpeg", FileTypeImage},
		{"mp4", FileTypeVideo},
		{"mp3", FileTypeAudio},
		{"wav", FileTypeAudio},
		{"xyz", FileTypeOther},
		{"", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := GetFileType(tt.ext); got != tt.want {
				t.Errorf("GetFileType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestSupportedExtensions(t *testing.T) {
	got := SupportedExtensions()
	want := []string{"jpeg", "jpg", "mp3", "mp4", "png", "wav"}
	if !slices.Equal(got, want) {
		t.Errorf("SupportedExtensions() = %v, want %v", got, want)
	}
}
