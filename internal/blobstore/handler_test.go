package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	s := New(Options{})
	defer s.Close()
	srv := httptest.NewServer(NewHandler(s))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/blobs", "application/octet-stream", strings.NewReader("<html>hi</html>"))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created storeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	_ = resp.Body.Close()
	require.True(t, CanHandleURL(created.Key))

	path, err := URLPath(created.Key)
	require.NoError(t, err)

	resp, err = http.Get(srv.URL + path)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "<html>hi</html>", string(body))
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+path, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + path)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_ServesExistingBlob(t *testing.T) {
	s := New(Options{})
	defer s.Close()

	png := []byte("\x89PNG\r\n\x1a\n0000")
	key, err := s.Store(context.Background(), png)
	require.NoError(t, err)
	path, err := URLPath(key)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewHandler(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.True(t, bytes.Equal(png, rec.Body.Bytes()))
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	s := New(Options{})
	defer s.Close()

	rec := httptest.NewRecorder()
	NewHandler(s).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/blobs/abc", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestURLPath_InvalidKey(t *testing.T) {
	_, err := URLPath("https://example.com")
	require.ErrorIs(t, err, ErrInvalidKey)
}
