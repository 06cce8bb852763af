package gazette

import "errors"

var (
	// ErrUnsupportedFormat is returned for document types the line
	// extractors do not handle.
	ErrUnsupportedFormat = errors.New("gazette: unsupported document format")

	// ErrExtractionFailed is returned when the document's text lines cannot
	// be read at all. This is the only failure that aborts a whole parse.
	ErrExtractionFailed = errors.New("gazette: line extraction failed")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("gazette: invalid configuration")

	// ErrFileTooLarge is returned when an uploaded document exceeds the
	// configured size limit.
	ErrFileTooLarge = errors.New("gazette: file exceeds size limit")

	// ErrEngineClosed is returned when parsing through a closed engine.
	ErrEngineClosed = errors.New("gazette: engine is closed")
)
