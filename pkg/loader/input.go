// Package loader reads tree-select input: path lists and click sequences.
//
// Two formats are understood:
//
// Counted (the challenge input format):
//
//	6
//	A/B/F
//	A/B/D
//	A/B/E
//	A/C
//	X/Y
//	X/Z
//	4
//	A
//	B
//	D
//	E
//
// Plain: one path per line; blank lines and lines starting with '#' are
// skipped.
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Input is a parsed tree-select session.
type Input struct {
	Paths  []string
	Clicks []string
}

// ErrTruncated is returned when a counted section ends early.
var ErrTruncated = errors.New("input ended before the declared count")

// readLines returns the trimmed lines of r, keeping blank lines.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}

// ParseCounted parses the counted format. The click section is optional;
// a missing click count means no clicks.
func ParseCounted(r io.Reader) (*Input, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	// Skip leading blank lines
	pos := 0
	next := func() (string, bool) {
		for pos < len(lines) && lines[pos] == "" {
			pos++
		}
		if pos >= len(lines) {
			return "", false
		}
		line := lines[pos]
		pos++
		return line, true
	}

	section := func(what string, required bool) ([]string, error) {
		header, ok := next()
		if !ok {
			if required {
				return nil, fmt.Errorf("missing %s count", what)
			}
			return nil, nil
		}
		n, err := strconv.Atoi(header)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("line %d: invalid %s count %q", pos, what, header)
		}
		items := make([]string, 0, n)
		for i := 0; i < n; i++ {
			item, ok := next()
			if !ok {
				return nil, fmt.Errorf("%s: got %d of %d: %w", what, i, n, ErrTruncated)
			}
			items = append(items, item)
		}
		return items, nil
	}

	paths, err := section("path", true)
	if err != nil {
		return nil, err
	}
	clicks, err := section("click", false)
	if err != nil {
		return nil, err
	}
	return &Input{Paths: paths, Clicks: clicks}, nil
}

// ParseLines parses the plain one-entry-per-line format.
func ParseLines(r io.Reader) ([]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range lines {
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// LoadInput reads a counted input file. "-" reads standard input.
func LoadInput(path string) (*Input, error) {
	if path == "-" {
		return ParseCounted(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	in, err := ParseCounted(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return in, nil
}

// LoadPathFiles reads several plain path files concurrently and returns
// their entries concatenated in argument order.
func LoadPathFiles(ctx context.Context, files []string) ([]string, error) {
	results := make([][]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			entries, err := ParseLines(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var paths []string
	for _, entries := range results {
		paths = append(paths, entries...)
	}
	return paths, nil
}
