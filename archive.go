package main

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// PageEntry locates one page image, either a plain file or an archive member
type PageEntry struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
}

// Book is the ordered page list of one comic file or image directory
type Book struct {
	Path   string
	Title  string
	Format string
	Size   int64
	Pages  []PageEntry
}

func isArchiveExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".cbz", ".rar", ".cbr", ".7z", ".cb7":
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

// archiveFormat maps an archive extension to the format stored in the library
func archiveFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".zip", ".cbz":
		return "cbz", nil
	case ".rar", ".cbr":
		return "cbr", nil
	case ".7z", ".cb7":
		return "cb7", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedArchive, ext)
	}
}

// OpenBook lists the pages of an archive or a directory of images
func OpenBook(path string, sortMethod int) (*Book, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	book := &Book{Path: path, Title: title}

	var pages []PageEntry
	if info.IsDir() {
		book.Format = "dir"
		book.Title = filepath.Base(path)
		pages, book.Size, err = listDirectory(path)
	} else {
		book.Size = info.Size()
		book.Format, err = archiveFormat(path)
		if err != nil {
			return nil, err
		}
		switch book.Format {
		case "cbz":
			pages, err = listZip(path)
		case "cbr":
			pages, err = listRar(path)
		case "cb7":
			pages, err = list7z(path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	book.Pages = GetSortStrategy(sortMethod).Sort(pages)
	debugLog("Opened %s (%s): %d pages", path, book.Format, len(book.Pages))
	return book, nil
}

// PageCount returns the number of image pages
func (b *Book) PageCount() int {
	return len(b.Pages)
}

// ReadPage returns the raw bytes of page index
func (b *Book) ReadPage(index int) ([]byte, error) {
	if index < 0 || index >= len(b.Pages) {
		return nil, ErrPageNotFound
	}
	entry := b.Pages[index]
	if entry.ArchivePath == "" {
		return os.ReadFile(entry.Path)
	}

	switch b.Format {
	case "cbz":
		return readZipEntry(entry.ArchivePath, entry.EntryPath)
	case "cbr":
		return readRarEntry(entry.ArchivePath, entry.EntryPath)
	case "cb7":
		return read7zEntry(entry.ArchivePath, entry.EntryPath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, b.Format)
	}
}

func readZipEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s: %w", entryPath, archivePath, ErrPageNotFound)
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
	return nil, fmt.Errorf("entry %s not found in %s: %w", entryPath, archivePath, ErrPageNotFound)
}

func read7zEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s: %w", entryPath, archivePath, ErrPageNotFound)
}

func archiveEntry(archivePath, name string) PageEntry {
	return PageEntry{
		Path:        archivePath + ":" + name,
		ArchivePath: archivePath,
		EntryPath:   name,
	}
}

func listZip(archivePath string) ([]PageEntry, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var pages []PageEntry
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			pages = append(pages, archiveEntry(archivePath, f.Name))
		}
	}
	return pages, nil
}

func listRar(archivePath string) ([]PageEntry, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var pages []PageEntry
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && isSupportedExt(header.Name) {
			pages = append(pages, archiveEntry(archivePath, header.Name))
		}
	}
	return pages, nil
}

func list7z(archivePath string) ([]PageEntry, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var pages []PageEntry
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			pages = append(pages, archiveEntry(archivePath, f.Name))
		}
	}
	return pages, nil
}

// listDirectory collects the images directly inside dir. Subdirectories
// and archives are not descended into.
func listDirectory(dir string) ([]PageEntry, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var pages []PageEntry
	var size int64
	for _, entry := range entries {
		if entry.IsDir() || !isSupportedExt(entry.Name()) {
			continue
		}
		if info, err := entry.Info(); err == nil {
			size += info.Size()
		}
		pages = append(pages, PageEntry{Path: filepath.Join(dir, entry.Name())})
	}
	return pages, size, nil
}

// collectBooks expands command line paths into readable books. Directories
// containing archives contribute one book per archive; a directory holding
// images is a book of its own.
func collectBooks(paths []string) ([]string, error) {
	var books []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if isArchiveExt(p) {
				books = append(books, p)
			} else {
				log.Printf("Warning: Skipping %s: not a comic archive", p)
			}
			continue
		}

		hasImages := false
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if isArchiveExt(path) {
				books = append(books, path)
			} else if filepath.Dir(path) == filepath.Clean(p) && isSupportedExt(path) {
				hasImages = true
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if hasImages {
			books = append(books, p)
		}
	}
	return books, nil
}
