package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writeZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestParseImageSource(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		kind     SourceKind
		archive  string
		entry    string
		expected error
	}{
		{"HTTPS", "https://shop.example/a.jpg", SourceHTTP, "", "", nil},
		{"HTTPUpper", "HTTP://shop.example/a.jpg", SourceHTTP, "", "", nil},
		{"File", "/photos/a.jpg", SourceFile, "", "", nil},
		{"ZipEntry", "/photos/set.zip!/front/a.png", SourceArchive, "/photos/set.zip", "front/a.png", nil},
		{"SeparatorWithoutArchive", "/photos/dir!/a.png", SourceFile, "", "", nil},
		{"Empty", "  ", 0, "", "", errEmptySource},
		{"OtherScheme", "ftp://host/a.jpg", 0, "", "", ErrUnsupportedSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseImageSource(tt.src)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.src, got.Path)
			assert.Equal(t, tt.archive, got.ArchivePath)
			assert.Equal(t, tt.entry, got.EntryPath)
		})
	}
}

func TestLocalProviderDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "summer-dress")
	data := pngBytes(t, 2, 2)
	writeFile(t, filepath.Join(dir, "img10.png"), data)
	writeFile(t, filepath.Join(dir, "img2.png"), data)
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not an image"))

	p, err := NewLocalProvider(SortNatural).Load(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, "summer-dress", p.Name)
	assert.Equal(t, StockInStock, p.StockStatus)
	require.Len(t, p.Images, 2)
	assert.Equal(t, filepath.Join(dir, "img2.png"), p.Images[0].Src)
	assert.Equal(t, filepath.Join(dir, "img10.png"), p.Images[1].Src)
	assert.Equal(t, "1", p.Images[0].ID)
	assert.Equal(t, "2", p.Images[1].ID)
	assert.Equal(t, "img2.png", p.Images[0].Alt)
}

func TestLocalProviderArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "lookbook.zip")
	data := pngBytes(t, 3, 2)
	writeZip(t, archive, map[string][]byte{
		"b.png":     data,
		"a.png":     data,
		"notes.txt": []byte("skip"),
	}, []string{"b.png", "notes.txt", "a.png"})

	tests := []struct {
		sortMethod int
		expected   []string
	}{
		{SortNatural, []string{"a.png", "b.png"}},
		{SortEntryOrder, []string{"b.png", "a.png"}},
	}

	for _, tt := range tests {
		p, err := NewLocalProvider(tt.sortMethod).GetProductBySlug(context.Background(), archive)
		require.NoError(t, err)
		assert.Equal(t, "lookbook", p.Name)

		var entries []string
		for _, img := range p.Images {
			entries = append(entries, img.Alt)
			assert.Equal(t, archiveEntrySrc(archive, img.Alt), img.Src)
		}
		assert.Equal(t, tt.expected, entries, "sort method %d", tt.sortMethod)
	}

	// Entries are readable through the fetcher
	img, err := NewSourceFetcher(time.Second).Fetch(context.Background(), archiveEntrySrc(archive, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = NewSourceFetcher(time.Second).Fetch(context.Background(), archiveEntrySrc(archive, "missing.png"))
	assert.Error(t, err)
}

func TestLocalProviderErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewLocalProvider(SortNatural).Load(ctx, nil)
	assert.ErrorIs(t, err, ErrNoImages)

	empty := t.TempDir()
	writeFile(t, filepath.Join(empty, "readme.md"), []byte("#"))
	_, err = NewLocalProvider(SortNatural).Load(ctx, []string{empty})
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = NewLocalProvider(SortNatural).Load(ctx, []string{filepath.Join(empty, "nope")})
	assert.True(t, errors.Is(err, os.ErrNotExist))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewLocalProvider(SortNatural).Load(cancelled, []string{empty})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceFetcherHTTP(t *testing.T) {
	data := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	fetcher := NewSourceFetcher(time.Second)
	img, err := fetcher.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/gone.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")

	_, err = fetcher.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, errEmptySource)
}

func TestSourceFetcherFileDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	writeFile(t, path, []byte("not a png"))

	_, err := NewSourceFetcher(time.Second).Fetch(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}
