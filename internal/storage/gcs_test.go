package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const testBucket = "test-bucket"

// fakeGCS serves the JSON API calls used by GCSStore: multipart uploads
// honoring ifGenerationMatch=0, and deletes.
type fakeGCS struct {
	mu       sync.Mutex
	objects  map[string][]byte
	uploads  int
	requests []string
}

func newFakeGCS(t *testing.T) (*fakeGCS, *GCSStore) {
	t.Helper()
	f := &fakeGCS{objects: map[string][]byte{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	store, err := NewGCSStore(context.Background(), testBucket, "",
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return f, store
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	objectsPath := "/b/" + testBucket + "/o"
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, objectsPath):
		f.upload(w, r)
	case r.Method == http.MethodDelete && strings.Contains(r.URL.Path, objectsPath+"/"):
		raw := r.URL.EscapedPath()
		name, _ := url.PathUnescape(raw[strings.Index(raw, objectsPath+"/")+len(objectsPath)+1:])
		f.mu.Lock()
		_, ok := f.objects[name]
		delete(f.objects, name)
		f.mu.Unlock()
		if !ok {
			writeGCSError(w, http.StatusNotFound, "No such object")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeGCSError(w, http.StatusNotImplemented, "unexpected "+r.Method+" "+r.URL.Path)
	}
}

func (f *fakeGCS) upload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()

	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		writeGCSError(w, http.StatusBadRequest, "not multipart")
		return
	}
	mr := multipart.NewReader(r.Body, params["boundary"])

	metaPart, err := mr.NextPart()
	if err != nil {
		writeGCSError(w, http.StatusBadRequest, "missing metadata")
		return
	}
	var meta struct {
		Name        string `json:"name"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(metaPart).Decode(&meta); err != nil {
		writeGCSError(w, http.StatusBadRequest, "bad metadata")
		return
	}
	if meta.Name == "" {
		meta.Name = r.URL.Query().Get("name")
	}
	mediaPart, err := mr.NextPart()
	if err != nil {
		writeGCSError(w, http.StatusBadRequest, "missing media")
		return
	}
	body, err := io.ReadAll(mediaPart)
	if err != nil {
		writeGCSError(w, http.StatusBadRequest, "truncated media")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.objects[meta.Name]; exists && r.URL.Query().Get("ifGenerationMatch") == "0" {
		writeGCSError(w, http.StatusPreconditionFailed, "conditionNotMet")
		return
	}
	f.objects[meta.Name] = body

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"bucket":      testBucket,
		"name":        meta.Name,
		"contentType": meta.ContentType,
		"size":        len(body),
		"generation":  "1",
	})
}

func (f *fakeGCS) object(name string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[name]
	return b, ok
}

func writeGCSError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}

// failingReader yields head and then fails.
type failingReader struct {
	head []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.head) > 0 {
		n := copy(p, r.head)
		r.head = r.head[n:]
		return n, nil
	}
	return 0, r.err
}

func TestGCSStore_UploadWriteOnce(t *testing.T) {
	fake, store := newFakeGCS(t)
	ctx := context.Background()

	path, err := store.Upload(ctx, "rec-1/lettre.pdf", "application/pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, "rec-1/lettre.pdf", path)

	body, ok := fake.object("rec-1/lettre.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4 body", string(body))

	_, err = store.Upload(ctx, "rec-1/lettre.pdf", "application/pdf", strings.NewReader("again"))
	assert.ErrorIs(t, err, ErrObjectExists)

	body, _ = fake.object("rec-1/lettre.pdf")
	assert.Equal(t, "%PDF-1.4 body", string(body))
}

func TestGCSStore_ReadErrorLeavesNoObject(t *testing.T) {
	fake, store := newFakeGCS(t)
	readErr := errors.New("disk read error")

	_, err := store.Upload(context.Background(), "rec-2/lettre.pdf", "application/pdf",
		&failingReader{head: []byte("%PDF-1.4 partial"), err: readErr})

	require.ErrorIs(t, err, readErr)
	_, ok := fake.object("rec-2/lettre.pdf")
	assert.False(t, ok, "truncated upload must not be stored")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Zero(t, fake.uploads, "no upload request expected, got %v", fake.requests)
}

func TestGCSStore_Delete(t *testing.T) {
	fake, store := newFakeGCS(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "rec-3/lettre.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "rec-3/lettre.pdf"))
	_, ok := fake.object("rec-3/lettre.pdf")
	assert.False(t, ok)

	// already gone is not an error
	assert.NoError(t, store.Delete(ctx, "rec-3/lettre.pdf"))
}
