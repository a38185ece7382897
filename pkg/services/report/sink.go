package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type sinkKind int

const (
	sinkConsole sinkKind = iota
	sinkFile
	sinkTemp
)

// sink is the single output destination of a run
type sink struct {
	kind   sinkKind
	writer io.Writer
	file   *os.File
	path   string
}

func consoleSink(w io.Writer) *sink {
	if w == nil {
		w = os.Stdout
	}
	return &sink{kind: sinkConsole, writer: w}
}

func fileSink(path string, kind sinkKind) (*sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return &sink{kind: kind, writer: f, file: f, path: path}, nil
}

// Close closes the underlying file. The console is never closed.
func (s *sink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func tempFileName(dir, frequency, name, date string) string {
	return filepath.Join(dir, fmt.Sprintf("report.%s.%s.%s.csv", frequency, name, date))
}

// expandHome replaces a leading "~" with the current user's home directory
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
