package fingerprint_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/fingerprint"
)

type failingReader struct{ after int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("disk gone")
	}
	n := min(len(p), f.after)
	f.after -= n
	return n, nil
}

func TestCompute_KnownDigest(t *testing.T) {
	got, err := fingerprint.Compute(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", got)
}

func TestCompute_MatchesComputeBytesAcrossChunks(t *testing.T) {
	data := bytes.Repeat([]byte("resume-bytes-"), 10_000)

	got, err := fingerprint.Compute(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, fingerprint.ComputeBytes(data), got)
	assert.Len(t, got, 64)
}

func TestCompute_DifferentContentDiffers(t *testing.T) {
	a, err := fingerprint.Compute(strings.NewReader("version one"))
	require.NoError(t, err)
	b, err := fingerprint.Compute(strings.NewReader("version two"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCompute_PropagatesReadError(t *testing.T) {
	_, err := fingerprint.Compute(&failingReader{after: 40_000})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.NotErrorIs(t, err, io.EOF)
}
