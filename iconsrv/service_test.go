package iconsrv

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-sl/constants"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nrest-of-image")

func TestGetMimeType(t *testing.T) {
	tests := map[string]string{
		".svg":  "image/svg+xml",
		".ico":  "image/x-icon",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "application/octet-stream",
	}
	for ext, want := range tests {
		assert.Equal(t, want, getMimeType(ext), ext)
	}
}

func TestSniffExt(t *testing.T) {
	assert.Equal(t, ".png", sniffExt(pngBytes))
	assert.Equal(t, ".jpg", sniffExt([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, ".ico", sniffExt([]byte{0, 0, 1, 0, 1}))
	assert.Equal(t, ".svg", sniffExt([]byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`)))
	assert.Equal(t, "", sniffExt([]byte("hello")))
	assert.Equal(t, "", sniffExt(nil))
}

func TestNormalize_InlineForms(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	out, err := s.Normalize(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, out)

	uri := "data:image/png;base64,AAAA"
	out, err = s.Normalize(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, uri, out)

	out, err = s.Normalize(ctx, base64.StdEncoding.EncodeToString(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngBytes), out)

	_, err = s.Normalize(ctx, "not base64 at all!")
	assert.ErrorIs(t, err, ErrUnsupportedIcon)

	_, err = s.Normalize(ctx, base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.ErrorIs(t, err, ErrUnsupportedIcon)
}

func TestNormalize_URLIsCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(pngBytes)
	}))
	defer server.Close()

	work := t.TempDir()
	s := New(work)
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

	for i := 0; i < 2; i++ {
		out, err := s.Normalize(context.Background(), server.URL+"/icon")
		require.NoError(t, err)
		assert.Equal(t, want, out)
	}
	assert.Equal(t, int32(1), hits.Load())

	files, err := os.ReadDir(filepath.Join(work, constants.CacheDir, constants.IconsDir))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".png", filepath.Ext(files[0].Name()))
}

func TestNormalize_URLFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := New(t.TempDir())
	_, err := s.Normalize(context.Background(), server.URL+"/missing.png")
	assert.ErrorContains(t, err, "status 404")
}
