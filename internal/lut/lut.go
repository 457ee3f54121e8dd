package lut

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxSize is the largest accepted LUT_3D_SIZE. It bounds the allocation
// made for a header before any data has been read.
const MaxSize = 256

// Parse errors.
var (
	ErrMissingSize = errors.New("invalid LUT_3D_SIZE")
	ErrInvalidSize = errors.New("invalid size")
	ErrNoData      = errors.New("invalid .cube file: size or data missing")
)

// LUT is a parsed 3D lookup table. Data holds Size³ RGBA entries, red
// varying fastest, as laid out in the file; alpha is always 1.
type LUT struct {
	Title string    `json:"title,omitempty"`
	Size  int       `json:"size"`
	Data  []float32 `json:"data"`
}

// Entries returns the number of RGBA entries in the table.
func (l *LUT) Entries() int {
	return len(l.Data) / 4
}

// Parse reads an Adobe/Resolve .cube file.
//
// Comments, blank lines and DOMAIN_ lines are skipped. Data rows before
// LUT_3D_SIZE, rows with fewer than three numbers and rows past the table
// are ignored; unfilled entries stay zero.
func Parse(content string) (*LUT, error) {
	var (
		lut         LUT
		filled      int
		initialized bool
	)

	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)

		switch {
		case line == "", strings.HasPrefix(line, "#"), strings.HasPrefix(line, "DOMAIN_"):
			continue
		case strings.HasPrefix(line, "TITLE"):
			lut.Title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "TITLE")), `"`)
			continue
		case strings.HasPrefix(line, "LUT_3D_SIZE"):
			size, err := parseSize(line)
			if err != nil {
				return nil, err
			}
			lut.Size = size
			lut.Data = make([]float32, size*size*size*4)
			filled = 0
			initialized = true
			continue
		}

		if !initialized || filled >= lut.Entries() {
			continue
		}

		r, g, b, ok := parseRow(line)
		if !ok {
			continue
		}
		i := filled * 4
		lut.Data[i], lut.Data[i+1], lut.Data[i+2], lut.Data[i+3] = r, g, b, 1
		filled++
	}

	if !initialized || lut.Size == 0 {
		return nil, ErrNoData
	}
	return &lut, nil
}

func parseSize(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, ErrMissingSize
	}
	size, err := strconv.Atoi(fields[1])
	if err != nil || size < 0 || size > MaxSize {
		return 0, ErrInvalidSize
	}
	return size, nil
}

// parseRow parses the first three fields of a data row as finite floats.
func parseRow(line string) (r, g, b float32, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, 0, false
	}
	var rgb [3]float32
	for i := range rgb {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, false
		}
		rgb[i] = float32(v)
	}
	return rgb[0], rgb[1], rgb[2], true
}
