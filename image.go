package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Image is one entry of a product's image list. Images are supplied by the
// owner and are never mutated by the gallery.
type Image struct {
	ID  string `json:"id,omitempty"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// placeholderSrc is the source drawn in place of a missing or broken image
const placeholderSrc = "placeholder:"

// archiveSeparator splits an archive path from the entry inside it
const archiveSeparator = "!/"

// maxImageBytes bounds a single remote download
const maxImageBytes = 32 << 20

var (
	ErrUnsupportedSource = errors.New("unsupported image source")
	errEmptySource       = errors.New("image has no source")
)

// SourceKind identifies where an image source lives
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceHTTP
	SourceArchive
)

// ImageSource is a parsed Image.Src
type ImageSource struct {
	Kind        SourceKind
	Path        string // URL, local file path or archive!/entry
	ArchivePath string // Empty unless Kind is SourceArchive
	EntryPath   string // Path within the archive
}

// ParseImageSource classifies src as a remote URL, an archive entry or a plain file
func ParseImageSource(src string) (ImageSource, error) {
	if strings.TrimSpace(src) == "" {
		return ImageSource{}, errEmptySource
	}

	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ImageSource{Kind: SourceHTTP, Path: src}, nil
	}
	if strings.Contains(lower, "://") {
		return ImageSource{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, src)
	}

	if i := strings.Index(src, archiveSeparator); i > 0 && isArchiveExt(src[:i]) {
		return ImageSource{
			Kind:        SourceArchive,
			Path:        src,
			ArchivePath: src[:i],
			EntryPath:   src[i+len(archiveSeparator):],
		}, nil
	}

	return ImageSource{Kind: SourceFile, Path: src}, nil
}

// archiveEntrySrc builds the Src of an image stored inside an archive
func archiveEntrySrc(archivePath, entryPath string) string {
	return archivePath + archiveSeparator + entryPath
}

func isArchiveExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// ImageFetcher retrieves and decodes the image behind a source string
type ImageFetcher interface {
	Fetch(ctx context.Context, src string) (image.Image, error)
}

// SourceFetcher fetches images over HTTP, from disk and from archives
type SourceFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewSourceFetcher creates a SourceFetcher whose remote requests time out after timeout
func NewSourceFetcher(timeout time.Duration) *SourceFetcher {
	return &SourceFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxImageBytes,
	}
}

// Fetch loads and decodes src
func (f *SourceFetcher) Fetch(ctx context.Context, src string) (image.Image, error) {
	source, err := ParseImageSource(src)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch source.Kind {
	case SourceHTTP:
		data, err = f.fetchHTTP(ctx, source.Path)
	case SourceArchive:
		data, err = readArchiveEntry(source.ArchivePath, source.EntryPath)
	default:
		data, err = os.ReadFile(source.Path)
	}
	if err != nil {
		return nil, err
	}

	return decodeImage(data, src)
}

func (f *SourceFetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

func decodeImage(data []byte, name string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

// Archive readers

func readArchiveEntry(archivePath, entryPath string) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(archivePath)); ext {
	case ".zip":
		return readZipEntry(archivePath, entryPath)
	case ".rar":
		return readRarEntry(archivePath, entryPath)
	case ".7z":
		return read7zEntry(archivePath, entryPath)
	default:
		return nil, fmt.Errorf("%w: archive format %s", ErrUnsupportedSource, ext)
	}
}

func readZipEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readRarEntry(archivePath, entryPath string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func read7zEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}
