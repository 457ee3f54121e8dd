package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frameflow/internal/filesystem"
	"frameflow/internal/probe"
)

type fakeProber struct {
	meta    *probe.Metadata
	err     error
	gotPath string
}

func (f *fakeProber) Probe(_ context.Context, path string) (*probe.Metadata, error) {
	f.gotPath = path
	if f.err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", f.err)
	}
	return f.meta, nil
}

type fakeProxies struct {
	err           error
	gotIn, gotOut string
	calls         int
}

func (f *fakeProxies) GenerateProxy(_ context.Context, in, out string) (string, error) {
	f.calls++
	f.gotIn, f.gotOut = in, out
	if f.err != nil {
		return "", f.err
	}
	return out, nil
}

func newTestHandlers(prober *fakeProber, proxies *fakeProxies) *Handlers {
	if prober == nil {
		prober = &fakeProber{meta: &probe.Metadata{}}
	}
	if proxies == nil {
		proxies = &fakeProxies{}
	}
	return New(prober, proxies, filesystem.DefaultRetryConfig())
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, w, &body)
	return body["error"]
}

func TestGetMetadata(t *testing.T) {
	prober := &fakeProber{meta: &probe.Metadata{Width: 1920, Height: 1080, Duration: 12.5}}
	h := newTestHandlers(prober, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/metadata?path=frameflow%3A%2F%2F%2Ftmp%2Fclip.mp4", nil)
	w := httptest.NewRecorder()
	h.GetMetadata(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if prober.gotPath != "frameflow:///tmp/clip.mp4" {
		t.Errorf("prober got %q", prober.gotPath)
	}

	var meta probe.Metadata
	decodeBody(t, w, &meta)
	if meta != (probe.Metadata{Width: 1920, Height: 1080, Duration: 12.5}) {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestGetMetadataErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestHandlers(nil, nil).GetMetadata(w, httptest.NewRequest(http.MethodGet, "/api/metadata", nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("probe failure", func(t *testing.T) {
		h := newTestHandlers(&fakeProber{err: errors.New("exit status 1")}, nil)
		w := httptest.NewRecorder()
		h.GetMetadata(w, httptest.NewRequest(http.MethodGet, "/api/metadata?path=/nope.mp4", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if msg := errorMessage(t, w); msg != "ffprobe failed: exit status 1" {
			t.Errorf("error = %q", msg)
		}
	})
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestGetMediaInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "still.PNG")
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		t.Fatal(err)
	}

	prober := &fakeProber{meta: &probe.Metadata{Width: 1, Height: 1}}
	h := newTestHandlers(prober, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/media/info", nil)
	q := req.URL.Query()
	q.Set("path", path)
	req.URL.RawQuery = q.Encode()

	w := httptest.NewRecorder()
	h.GetMediaInfo(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var info MediaInfo
	decodeBody(t, w, &info)
	if info.Size != int64(len(pngHeader)) {
		t.Errorf("size = %d, want %d", info.Size, len(pngHeader))
	}
	if info.MimeType != "image/png" || info.DetectedType != "image/png" {
		t.Errorf("mimeType = %q detectedType = %q", info.MimeType, info.DetectedType)
	}
	if info.FileType != "image" {
		t.Errorf("fileType = %q", info.FileType)
	}
	if info.Metadata == nil || info.Metadata.Width != 1 {
		t.Errorf("metadata = %+v", info.Metadata)
	}
	if info.ProbeError != "" {
		t.Errorf("probeError = %q, want empty", info.ProbeError)
	}
}

func TestGetMediaInfoProbeFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello world\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := newTestHandlers(&fakeProber{err: errors.New("invalid data")}, nil)
	w := httptest.NewRecorder()
	h.GetMediaInfo(w, httptest.NewRequest(http.MethodGet, "/api/media/info?path=frameflow://"+path, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var info MediaInfo
	decodeBody(t, w, &info)
	if info.Path != path {
		t.Errorf("path = %q, want %q", info.Path, path)
	}
	if prober := h.prober.(*fakeProber); prober.gotPath != "frameflow://"+path {
		t.Errorf("prober got %q, want the undecoded identifier", prober.gotPath)
	}
	if info.MimeType != "application/octet-stream" {
		t.Errorf("mimeType = %q", info.MimeType)
	}
	if !strings.HasPrefix(info.DetectedType, "text/plain") {
		t.Errorf("detectedType = %q, want text/plain", info.DetectedType)
	}
	if info.ProbeError != "ffprobe failed: invalid data" {
		t.Errorf("probeError = %q", info.ProbeError)
	}
}

func TestGetMediaInfoErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing path", "", http.StatusBadRequest},
		{"missing file", filepath.Join(dir, "gone.mp4"), http.StatusNotFound},
		{"directory", dir, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/media/info", nil)
			if tt.path != "" {
				q := req.URL.Query()
				q.Set("path", tt.path)
				req.URL.RawQuery = q.Encode()
			}
			w := httptest.NewRecorder()
			newTestHandlers(nil, nil).GetMediaInfo(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCreateProxy(t *testing.T) {
	proxies := &fakeProxies{}
	h := newTestHandlers(nil, proxies)

	body := `{"inputPath":"/media/a.mp4","outputPath":"/cache/a_proxy.mp4"}`
	w := httptest.NewRecorder()
	h.CreateProxy(w, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if proxies.gotIn != "/media/a.mp4" || proxies.gotOut != "/cache/a_proxy.mp4" {
		t.Errorf("generator got (%q, %q)", proxies.gotIn, proxies.gotOut)
	}

	var resp map[string]string
	decodeBody(t, w, &resp)
	if resp["outputPath"] != "/cache/a_proxy.mp4" {
		t.Errorf("outputPath = %q", resp["outputPath"])
	}
}

func TestCreateProxyValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed json", `{"inputPath":`, "invalid request body"},
		{"unknown field", `{"inputPath":"a","outputPath":"b","crf":1}`, "invalid request body"},
		{"missing output", `{"inputPath":"/a.mp4"}`, "outputPath"},
		{"missing input", `{"outputPath":"/b.mp4"}`, "inputPath"},
		{"same paths", `{"inputPath":"/a.mp4","outputPath":"/a.mp4"}`, "nefield"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxies := &fakeProxies{}
			h := newTestHandlers(nil, proxies)

			w := httptest.NewRecorder()
			h.CreateProxy(w, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if msg := errorMessage(t, w); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", msg, tt.wantMsg)
			}
			if proxies.calls != 0 {
				t.Error("generator must not run for invalid requests")
			}
		})
	}
}

func TestCreateProxyFailure(t *testing.T) {
	h := newTestHandlers(nil, &fakeProxies{err: errors.New("ffmpeg error: Unknown encoder 'libx264'")})

	body := `{"inputPath":"/a.mp4","outputPath":"/b.mp4"}`
	w := httptest.NewRecorder()
	h.CreateProxy(w, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(body)))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if msg := errorMessage(t, w); !strings.HasPrefix(msg, "ffmpeg error:") {
		t.Errorf("error = %q", msg)
	}
}

func TestSaveProject(t *testing.T) {
	target := filepath.Join(t.TempDir(), "edit.frameflow")
	payload, _ := json.Marshal(SaveProjectRequest{Path: target, Content: `{"tracks":[]}`})

	w := httptest.NewRecorder()
	newTestHandlers(nil, nil).SaveProject(w, httptest.NewRequest(http.MethodPost, "/api/project/save", strings.NewReader(string(payload))))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != `{"tracks":[]}` {
		t.Errorf("content = %q", data)
	}
}

func TestSaveProjectEmptyContent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "empty.frameflow")
	payload, _ := json.Marshal(SaveProjectRequest{Path: target})

	w := httptest.NewRecorder()
	newTestHandlers(nil, nil).SaveProject(w, httptest.NewRequest(http.MethodPost, "/api/project/save", strings.NewReader(string(payload))))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if info, err := os.Stat(target); err != nil || info.Size() != 0 {
		t.Errorf("expected empty file, stat = %v, %v", info, err)
	}
}

func TestSaveProjectErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestHandlers(nil, nil).SaveProject(w, httptest.NewRequest(http.MethodPost, "/api/project/save", strings.NewReader(`{"content":"x"}`)))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		h := newTestHandlers(nil, nil)
		h.writeFile = func(string, []byte) error { return errors.New("open /ro/p: read-only file system") }

		w := httptest.NewRecorder()
		h.SaveProject(w, httptest.NewRequest(http.MethodPost, "/api/project/save", strings.NewReader(`{"path":"/ro/p","content":"x"}`)))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if msg := errorMessage(t, w); msg != "open /ro/p: read-only file system" {
			t.Errorf("error = %q", msg)
		}
	})
}

func TestGetAvailableMemory(t *testing.T) {
	h := newTestHandlers(nil, nil)
	h.availableMemory = func() (uint64, error) { return 8 << 30, nil }

	w := httptest.NewRecorder()
	h.GetAvailableMemory(w, httptest.NewRequest(http.MethodGet, "/api/memory", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]uint64
	decodeBody(t, w, &body)
	if body["availableBytes"] != 8<<30 {
		t.Errorf("availableBytes = %d", body["availableBytes"])
	}
}

func TestGetAvailableMemoryError(t *testing.T) {
	h := newTestHandlers(nil, nil)
	h.availableMemory = func() (uint64, error) { return 0, errors.New("no /proc") }

	w := httptest.NewRecorder()
	h.GetAvailableMemory(w, httptest.NewRequest(http.MethodGet, "/api/memory", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestParseLUT(t *testing.T) {
	var cube strings.Builder
	cube.WriteString("TITLE \"Identity\"\nLUT_3D_SIZE 2\n")
	for b := 0; b < 2; b++ {
		for g := 0; g < 2; g++ {
			for r := 0; r < 2; r++ {
				fmt.Fprintf(&cube, "%d %d %d\n", r, g, b)
			}
		}
	}

	w := httptest.NewRecorder()
	newTestHandlers(nil, nil).ParseLUT(w, httptest.NewRequest(http.MethodPost, "/api/lut", strings.NewReader(cube.String())))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var body struct {
		Title string    `json:"title"`
		Size  int       `json:"size"`
		Data  []float32 `json:"data"`
	}
	decodeBody(t, w, &body)
	if body.Title != "Identity" || body.Size != 2 || len(body.Data) != 32 {
		t.Errorf("got title=%q size=%d len(data)=%d", body.Title, body.Size, len(body.Data))
	}
	// Last entry is (1,1,1,1)
	for i, v := range body.Data[28:] {
		if v != 1 {
			t.Errorf("data[%d] = %v, want 1", 28+i, v)
		}
	}
}

func TestParseLUTInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"no size", "0 0 0\n1 1 1\n", "size or data missing"},
		{"size without value", "LUT_3D_SIZE\n", "invalid LUT_3D_SIZE"},
		{"garbage size", "LUT_3D_SIZE big\n", "invalid size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestHandlers(nil, nil).ParseLUT(w, httptest.NewRequest(http.MethodPost, "/api/lut", strings.NewReader(tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if msg := errorMessage(t, w); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}
