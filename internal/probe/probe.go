package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"frameflow/internal/logging"
	"frameflow/internal/metrics"
	"frameflow/internal/protocol"
)

// DefaultBinary is the ffprobe executable looked up on PATH.
const DefaultBinary = "ffprobe"

// Metadata describes the primary video stream of a media file.
// Fields are zero when the file has no video stream or no duration.
type Metadata struct {
	Width    uint64  `json:"width"`
	Height   uint64  `json:"height"`
	Duration float64 `json:"duration"`
}

// Prober extracts Metadata by running ffprobe.
type Prober struct {
	binary string
}

// New creates a Prober that runs binary, or DefaultBinary when empty.
func New(binary string) *Prober {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Prober{binary: binary}
}

// Binary returns the ffprobe executable this Prober runs.
func (p *Prober) Binary() string {
	return p.binary
}

// Probe runs ffprobe against path. path may be a plain filesystem path or a
// frameflow:// identifier, which is decoded first.
func (p *Prober) Probe(ctx context.Context, path string) (*Metadata, error) {
	return p.ProbeDecoded(ctx, CleanPath(path))
}

// ProbeDecoded runs ffprobe against a path that has already been through
// CleanPath. It is never decoded again.
func (p *Prober) ProbeDecoded(ctx context.Context, path string) (*Metadata, error) {
	start := time.Now()
	meta, err := p.probe(ctx, path)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProbeTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	metrics.ProbeTotal.WithLabelValues("success").Inc()
	return meta, nil
}

func (p *Prober) probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w - %s", err, msg)
		}
		return nil, err
	}

	logging.Debug("ffprobe %s: %d bytes of output", path, stdout.Len())
	return ParseOutput(stdout.Bytes())
}

// CleanPath decodes frameflow:// identifiers and returns other paths unchanged.
func CleanPath(path string) string {
	if strings.HasPrefix(path, protocol.SchemePrefix) {
		return protocol.DecodePath(path)
	}
	return path
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     *int64 `json:"width"`
		Height    *int64 `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration *string `json:"duration"`
	} `json:"format"`
}

// ParseOutput extracts Metadata from ffprobe's JSON output. Width and height
// come from the first video stream, duration from the container format.
func ParseOutput(data []byte) (*Metadata, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid ffprobe output: %w", err)
	}

	meta := &Metadata{}
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		meta.Width = nonNegative(s.Width)
		meta.Height = nonNegative(s.Height)
		break
	}

	if out.Format.Duration != nil {
		if d, err := strconv.ParseFloat(*out.Format.Duration, 64); err == nil && !math.IsNaN(d) && !math.IsInf(d, 0) {
			meta.Duration = d
		}
	}

	return meta, nil
}

func nonNegative(v *int64) uint64 {
	if v == nil || *v < 0 {
		return 0
	}
	return uint64(*v)
}
