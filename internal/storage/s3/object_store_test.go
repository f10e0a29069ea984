package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/config"
	"resumeflow/internal/port"
	"resumeflow/internal/storage/s3"
)

type recordedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
	objects  map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone(), body: body})

	switch r.Method {
	case http.MethodPut:
		f.objects[r.URL.Path] = body
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
			return
		}
		_, _ = w.Write(data)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}
}

func newStore(t *testing.T) (port.ObjectStorage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := s3.NewObjectStore(context.Background(), &config.S3Config{
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test-access",
		SecretKey: "test-secret",
	})
	require.NoError(t, err)
	return store, fake
}

func TestObjectStore_UploadDownloadDelete(t *testing.T) {
	store, fake := newStore(t)
	ctx := context.Background()
	data := []byte("%PDF-1.4 resume")

	out, err := store.Upload(ctx, port.UploadInput{
		Bucket:      "resumes",
		Key:         "owners/o1/resumes/jane.pdf",
		Body:        bytes.NewReader(data),
		ContentType: "application/pdf",
		Size:        int64(len(data)),
	})
	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, out.ETag)

	put := fake.requests[0]
	assert.Equal(t, "/resumes/owners/o1/resumes/jane.pdf", put.path)
	assert.Equal(t, "application/pdf", put.header.Get("Content-Type"))
	assert.Contains(t, put.header.Get("Content-Disposition"), `filename="jane.pdf"`)

	got, err := store.Download(ctx, "resumes", "owners/o1/resumes/jane.pdf")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, "resumes", "owners/o1/resumes/jane.pdf"))
	assert.Empty(t, fake.objects)
}

func TestObjectStore_PresignedURL(t *testing.T) {
	store, fake := newStore(t)

	url, err := store.GetPresignedURL(context.Background(), "resumes", "owners/o1/resumes/jane.pdf", 600)

	require.NoError(t, err)
	assert.Contains(t, url, "/resumes/owners/o1/resumes/jane.pdf")
	assert.Contains(t, url, "X-Amz-Expires=600")
	assert.True(t, strings.Contains(url, "X-Amz-Signature="))
	assert.Empty(t, fake.requests)
}

func TestObjectStore_PresignedURLDefaultExpiry(t *testing.T) {
	store, _ := newStore(t)

	url, err := store.GetPresignedURL(context.Background(), "resumes", "k.pdf", 0)

	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=3600")
}
