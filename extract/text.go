package extract

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// TextExtractor reads pre-extracted gazette text, one report line per
// file line.
type TextExtractor struct{}

func (x *TextExtractor) SupportedFormats() []string { return []string{"txt"} }

func (x *TextExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening text file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}

	return &Document{
		Lines:  lines,
		Method: "text",
	}, nil
}
