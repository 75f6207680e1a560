// Package scanfile reads scanner reports in the text format
//
//	--- scanner 0 ---
//	404,-588,-901
//	528,-643,409
//
//	--- scanner 1 ---
//	...
//
// Each block is a header line followed by one x,y,z beacon per line, in
// the scanner's own frame. Blocks are separated by blank lines.
package scanfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/scanalign/internal/geom"
	"github.com/banshee-data/scanalign/internal/registration"
)

const (
	headerPrefix = "--- scanner "
	headerSuffix = " ---"
)

// maxFileSize bounds ParseFile input (16MB).
const maxFileSize = 16 * 1024 * 1024

// ParseError reports malformed input at a specific line.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNoScanners is returned when the input holds no scanner blocks.
var ErrNoScanners = errors.New("no scanners in input")

// ParseFile reads scans from the file at path.
func ParseFile(path string) ([]registration.Scan, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scan file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("scan file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan file: %w", err)
	}
	defer f.Close()

	scans, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return scans, nil
}

// Parse reads scans from r. Scanner IDs come from the headers and must be
// unique; every scanner must report at least one beacon.
func Parse(r io.Reader) ([]registration.Scan, error) {
	sc := bufio.NewScanner(r)
	var (
		scans   []registration.Scan
		current *registration.Scan
		lineNo  int
		seen    = make(map[int]int)
	)

	closeScan := func() error {
		if current == nil {
			return nil
		}
		if len(current.Points) == 0 {
			return &ParseError{Line: lineNo, Msg: fmt.Sprintf("scanner %d has no beacons", current.ID)}
		}
		scans = append(scans, *current)
		current = nil
		return nil
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if line == "" {
			if err := closeScan(); err != nil {
				return nil, err
			}
			continue
		}

		if current == nil {
			id, err := parseHeader(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: "expected scanner header", Err: err}
			}
			if prev, dup := seen[id]; dup {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("duplicate scanner %d (first seen on line %d)", id, prev)}
			}
			seen[id] = lineNo
			current = &registration.Scan{ID: id}
			continue
		}

		if strings.HasPrefix(line, headerPrefix) {
			return nil, &ParseError{Line: lineNo, Msg: "expected blank line before scanner header"}
		}

		p, err := ParsePoint(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: "invalid beacon", Err: err}
		}
		current.Points = append(current.Points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scans: %w", err)
	}
	if err := closeScan(); err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, ErrNoScanners
	}
	return scans, nil
}

func parseHeader(line string) (int, error) {
	if !strings.HasPrefix(line, headerPrefix) || !strings.HasSuffix(line, headerSuffix) {
		return 0, fmt.Errorf("got %q", line)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, headerPrefix), headerSuffix)
	id, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil {
		return 0, fmt.Errorf("bad scanner id %q: %w", body, err)
	}
	return id, nil
}

// ParsePoint parses a single "x,y,z" beacon line.
func ParsePoint(line string) (geom.Point, error) {
	if strings.TrimSpace(line) == "" {
		return geom.Point{}, errors.New("expected coordinate 1 of 3")
	}
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return geom.Point{}, fmt.Errorf("expected coordinate %d of 3", len(fields)+1)
	}
	if len(fields) > 3 {
		return geom.Point{}, fmt.Errorf("expected end of line, not %q", fields[3])
	}
	var coords [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return geom.Point{}, fmt.Errorf("coordinate %d: %w", i, err)
		}
		coords[i] = v
	}
	return geom.Point{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// Write formats scans in the same text format Parse reads.
func Write(w io.Writer, scans []registration.Scan) error {
	bw := bufio.NewWriter(w)
	for i, s := range scans {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "%s%d%s\n", headerPrefix, s.ID, headerSuffix)
		for _, p := range s.Points {
			fmt.Fprintln(bw, p.String())
		}
	}
	return bw.Flush()
}
