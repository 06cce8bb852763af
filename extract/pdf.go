package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads gazette PDFs. It reconstructs visual rows from glyph
// positions rather than using the plain text stream, because the reports
// are column-aligned and the mark rows only tokenize correctly when each
// visual row comes out as one line.
type PDFExtractor struct{}

func (x *PDFExtractor) SupportedFormats() []string { return []string{"pdf"} }

func (x *PDFExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	var lines []string

	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageLines, err := pageRows(page)
		if err != nil || len(pageLines) == 0 {
			// Fall back to the plain text stream; skip the page when
			// that fails too.
			text, terr := page.GetPlainText(nil)
			if terr != nil {
				continue
			}
			pageLines = splitLines(text)
		}
		lines = append(lines, pageLines...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no text in %d pages", totalPages)
	}

	return &Document{
		Lines:  lines,
		Pages:  totalPages,
		Method: "pdf",
	}, nil
}

// pageRows renders one page as visual rows: fragments grouped by vertical
// position, ordered left to right, with a space wherever the horizontal
// gap between fragments exceeds the glyph advance.
func pageRows(page pdf.Page) ([]string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var sb strings.Builder
		var prev *pdf.Text
		for i := range row.Content {
			t := &row.Content[i]
			if t.S == "" {
				continue
			}
			if prev != nil && t.X > prev.X+prev.W+1 {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.S)
			prev = t
		}
		line := strings.TrimSpace(sb.String())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
