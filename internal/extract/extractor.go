// Package extract turns uploaded résumé and job description files into text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

// DefaultMinTextChars is the length under which an extraction is flagged as
// possibly failed (typically a scanned PDF with no text layer).
const DefaultMinTextChars = 100

type docconvExtractor struct {
	minTextChars int
}

// NewExtractor creates a TextExtractor backed by docconv for pdf and docx
// files. Plain text is decoded directly.
func NewExtractor(minTextChars int) port.TextExtractor {
	if minTextChars <= 0 {
		minTextChars = DefaultMinTextChars
	}
	return &docconvExtractor{minTextChars: minTextChars}
}

func (e *docconvExtractor) Extract(ctx context.Context, doc port.RawDocument) (*port.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType := doc.FileType
	if fileType == "" {
		ft, err := DetectFileType(doc.Filename)
		if err != nil {
			return nil, err
		}
		fileType = ft
	}

	var text string
	switch fileType {
	case domain.FileTypeTXT:
		text = strings.ToValidUTF8(string(doc.Data), "")
	case domain.FileTypePDF, domain.FileTypeDOCX:
		res, err := docconv.Convert(bytes.NewReader(doc.Data), domain.AllowedFileTypes[fileType], false)
		if err != nil {
			return nil, fmt.Errorf("extract.Extract %s: %w", doc.Filename, err)
		}
		text = res.Body
	default:
		return nil, domain.ErrUnsupportedFileType
	}

	text = strings.TrimSpace(text)
	return &port.Extraction{
		Text:           text,
		PossiblyFailed: utf8.RuneCountInString(text) < e.minTextChars,
	}, nil
}

// DetectFileType maps a filename's extension to a supported FileType.
func DetectFileType(filename string) (domain.FileType, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	ft, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	return ft, nil
}
