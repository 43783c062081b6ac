package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// LocalProvider builds a product from image files, directories and archives on disk
type LocalProvider struct {
	SortMethod int
}

// NewLocalProvider creates a provider ordering images with sortMethod
func NewLocalProvider(sortMethod int) *LocalProvider {
	return &LocalProvider{SortMethod: sortMethod}
}

// Load collects the images behind paths into a product named after the first path
func (p *LocalProvider) Load(ctx context.Context, paths []string) (*Product, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no paths given", ErrNoImages)
	}

	images, err := p.collectImages(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, strings.Join(paths, ", "))
	}

	for i := range images {
		images[i].ID = strconv.Itoa(i + 1)
	}

	name := strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
	return &Product{
		Name:        name,
		Slug:        name,
		StockStatus: StockInStock,
		Images:      images,
	}, nil
}

// GetProductBySlug treats slug as a local path
func (p *LocalProvider) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return p.Load(ctx, []string{slug})
}

func (p *LocalProvider) collectImages(ctx context.Context, paths []string) ([]Image, error) {
	var list []Image
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			list = append(list, p.collectFile(path)...)
			continue
		}

		var dirImages []Image
		err = filepath.WalkDir(path, func(walked string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			dirImages = append(dirImages, p.collectFile(walked)...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
		list = append(list, sortImages(dirImages, p.SortMethod)...)
	}
	return list, nil
}

// collectFile returns the image at path, or the images inside it when it is an archive
func (p *LocalProvider) collectFile(path string) []Image {
	switch {
	case isSupportedExt(path):
		return []Image{{Src: path, Alt: filepath.Base(path)}}
	case isArchiveExt(path):
		archiveImages, err := processArchive(path)
		if err != nil {
			warnLog("Skipping problematic archive %s: %v", path, err)
			return nil
		}
		return sortImages(archiveImages, p.SortMethod)
	default:
		return nil
	}
}

func processArchive(archivePath string) ([]Image, error) {
	var names []string
	var err error

	switch ext := strings.ToLower(filepath.Ext(archivePath)); ext {
	case ".zip":
		names, err = listZipEntries(archivePath)
	case ".rar":
		names, err = listRarEntries(archivePath)
	case ".7z":
		names, err = list7zEntries(archivePath)
	default:
		return nil, fmt.Errorf("%w: archive format %s", ErrUnsupportedSource, ext)
	}
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(names))
	for _, name := range names {
		images = append(images, Image{
			Src: archiveEntrySrc(archivePath, name),
			Alt: filepath.Base(name),
		})
	}
	return images, nil
}

func listZipEntries(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func listRarEntries(archivePath string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && isSupportedExt(header.Name) {
			names = append(names, header.Name)
		}
	}
	return names, nil
}

func list7zEntries(archivePath string) ([]string, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}
