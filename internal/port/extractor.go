package port

import (
	"context"

	"resumeflow/internal/domain"
)

// RawDocument is an uploaded file held in memory for the duration of one task.
type RawDocument struct {
	Filename string
	FileType domain.FileType
	Data     []byte
	// TooLarge marks an upload over the size limit. Its Data is not read.
	TooLarge bool
}

// Extraction is the plain text recovered from a RawDocument.
type Extraction struct {
	Text string
	// PossiblyFailed is set when the text is short enough that the source was
	// likely a scanned image.
	PossiblyFailed bool
}

// TextExtractor converts documents to plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc RawDocument) (*Extraction, error)
}
