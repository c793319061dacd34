package tree

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeparator splits a path into node names.
const DefaultSeparator = "/"

var (
	// ErrEmptyPath is returned for a blank path string.
	ErrEmptyPath = errors.New("empty path")
	// ErrEmptySegment is returned when a path contains an empty name
	// (leading, trailing or doubled separator).
	ErrEmptySegment = errors.New("empty name in path")
)

// PathError records which input path violated a precondition.
type PathError struct {
	Index int    // Position of the path in the input
	Path  string // The offending path
	Err   error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %d (%q): %v", e.Index, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

type buildConfig struct {
	separator string
}

// BuildOption customizes Build.
type BuildOption func(*buildConfig)

// WithSeparator sets the path separator. An empty separator keeps the default.
func WithSeparator(sep string) BuildOption {
	return func(c *buildConfig) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// Build constructs a forest from path strings.
//
// Each path describes a chain from a top-level node down to a leaf
// ("A/B/F": A owns B owns F). Every adjacent pair is wired as parent->child;
// nodes are created unchecked the first time their name appears, and
// re-encountering a pair from another path is idempotent. A path with a
// single name yields an isolated node.
//
// Names must be unique across the whole input: a name that shows up under
// two different parents, or that would become its own ancestor, is
// rejected rather than silently rewired.
func Build(paths []string, opts ...BuildOption) (*Forest, error) {
	cfg := buildConfig{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(&cfg)
	}

	f := NewForest()
	for i, path := range paths {
		if err := f.addPath(path, cfg.separator); err != nil {
			return nil, &PathError{Index: i, Path: path, Err: err}
		}
	}
	return f, nil
}

// addPath wires one path into the forest.
func (f *Forest) addPath(path, sep string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}

	names := strings.Split(path, sep)
	for _, name := range names {
		if name == "" {
			return ErrEmptySegment
		}
	}

	if len(names) == 1 {
		f.getOrCreate(names[0])
		return nil
	}

	for i := 0; i+1 < len(names); i++ {
		parent := f.getOrCreate(names[i])
		child := f.getOrCreate(names[i+1])
		if err := parent.AddChild(child); err != nil {
			return err
		}
	}
	return nil
}
