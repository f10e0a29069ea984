package extract_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/domain"
	"resumeflow/internal/extract"
	"resumeflow/internal/port"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		filename string
		want     domain.FileType
		wantErr  bool
	}{
		{"cv.PDF", domain.FileTypePDF, false},
		{"jane.docx", domain.FileTypeDOCX, false},
		{"notes.txt", domain.FileTypeTXT, false},
		{"photo.png", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := extract.DetectFileType(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_PlainText(t *testing.T) {
	e := extract.NewExtractor(0)
	body := strings.Repeat("Senior Go engineer with distributed systems experience. ", 3)

	out, err := e.Extract(context.Background(), port.RawDocument{
		Filename: "jane.txt",
		Data:     []byte("  " + body + "\n"),
	})

	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(body), out.Text)
	assert.False(t, out.PossiblyFailed)
}

func TestExtract_ShortTextIsFlagged(t *testing.T) {
	e := extract.NewExtractor(extract.DefaultMinTextChars)

	out, err := e.Extract(context.Background(), port.RawDocument{
		Filename: "short.txt",
		FileType: domain.FileTypeTXT,
		Data:     []byte("Jane Doe"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.Text)
	assert.True(t, out.PossiblyFailed)
}

func TestExtract_InvalidUTF8IsDropped(t *testing.T) {
	e := extract.NewExtractor(1)

	out, err := e.Extract(context.Background(), port.RawDocument{
		Filename: "bad.txt",
		Data:     []byte("Jane\xff Doe"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.Text)
}

func TestExtract_EmptyText(t *testing.T) {
	e := extract.NewExtractor(0)

	out, err := e.Extract(context.Background(), port.RawDocument{Filename: "blank.txt", Data: []byte(" \n\t")})

	require.NoError(t, err)
	assert.Empty(t, out.Text)
	assert.True(t, out.PossiblyFailed)
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := extract.NewExtractor(0)

	_, err := e.Extract(context.Background(), port.RawDocument{Filename: "cv.rtf", Data: []byte("x")})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extract.NewExtractor(0).Extract(ctx, port.RawDocument{Filename: "a.txt", Data: []byte("x")})

	assert.ErrorIs(t, err, context.Canceled)
}
