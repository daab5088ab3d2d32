package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "casestat/internal/errors"
)

// DefaultMarker is the marker that identifies input tables by file name.
const DefaultMarker = "csv"

// tableExtensions are the bare markers treated as file extensions.
var tableExtensions = map[string]bool{"csv": true, "tsv": true, "xlsx": true, "xlsm": true}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Locator resolves a user-supplied path to exactly one input table.
type Locator struct {
	marker string
	logger *slog.Logger
}

// NewLocator creates a locator for marker. A marker that names a table extension
// ("csv", ".xlsx") matches file names ending in that extension, ignoring case.
// Any other marker matches file names that contain it.
func NewLocator(marker string, logger *slog.Logger) *Locator {
	if marker == "" {
		marker = DefaultMarker
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{marker: marker, logger: logger}
}

// Marker returns the file-name marker the locator matches.
func (l *Locator) Marker() string { return l.marker }

// Matches reports whether a file name carries the marker.
func (l *Locator) Matches(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(l.marker, "."))
	if strings.HasPrefix(l.marker, ".") || tableExtensions[ext] {
		return strings.EqualFold(filepath.Ext(name), "."+ext)
	}
	return strings.Contains(name, l.marker)
}

// Locate returns the path of the single input file designated by path.
//
// A path whose base name carries the marker is used as is. Any other path is
// scanned as a directory, non-recursively: no candidate is a NOT_FOUND error,
// more than one is an AMBIGUOUS_INPUT error.
func (l *Locator) Locate(path string) (string, error) {
	if l.Matches(filepath.Base(path)) {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			l.logger.Debug("Input path names a file",
				slog.String("path", path),
				slog.Int64("size", info.Size()))
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", apperrors.NewStorageError(fmt.Sprintf("failed to stat %s", path), err)
		}
		if os.IsNotExist(err) {
			return "", apperrors.NewInputNotFoundError(path, l.marker).
				WithContext("reason", "file does not exist")
		}
	}

	candidates, err := l.FindInputFiles(path)
	if err != nil {
		return "", err
	}

	switch len(candidates) {
	case 0:
		l.logger.Warn("No input file found",
			slog.String("directory", path),
			slog.String("marker", l.marker))
		return "", apperrors.NewInputNotFoundError(path, l.marker)
	case 1:
		l.logger.Info("Input file located",
			slog.String("directory", path),
			slog.String("file", candidates[0].Name))
		return candidates[0].Path, nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Name
		}
		l.logger.Error("Multiple input files found",
			slog.String("directory", path),
			slog.Int("candidate_count", len(candidates)))
		return "", apperrors.NewAmbiguousInputError(path, names)
	}
}

// Load locates the input designated by path and reads it as a table.
func (l *Locator) Load(path string) (*Table, error) {
	resolved, err := l.Locate(path)
	if err != nil {
		return nil, err
	}
	return ReadTable(resolved)
}

// FindInputFiles lists regular files in dir whose name carries the marker,
// sorted by name.
func (l *Locator) FindInputFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewInputNotFoundError(dir, l.marker).
				WithContext("reason", "directory does not exist")
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read directory %s", dir), err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !l.Matches(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
