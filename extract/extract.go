// Package extract turns result gazette documents into ordered text lines.
// Extractors are format-specific; the registry picks one by file extension.
// Line order must follow the visual reading order of the report, because
// downstream segmentation is purely positional.
package extract

import (
	"context"
	"fmt"
)

// Document is the extracted line sequence of one source file.
type Document struct {
	Lines  []string
	Pages  int    // 0 when the format has no page structure
	Method string // "pdf", "text"
}

// Extractor reads the ordered text lines of one document format.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Document, error)
	SupportedFormats() []string
}

type Registry struct {
	extractors map[string]Extractor
}

func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	for _, x := range []Extractor{&PDFExtractor{}, &TextExtractor{}} {
		for _, f := range x.SupportedFormats() {
			r.extractors[f] = x
		}
	}
	return r
}

func (r *Registry) Get(format string) (Extractor, error) {
	x, ok := r.extractors[format]
	if !ok {
		return nil, fmt.Errorf("no extractor for format: %s", format)
	}
	return x, nil
}

func (r *Registry) Register(format string, x Extractor) {
	r.extractors[format] = x
}
