package config

import (
	"os"
	"path/filepath"

	apperrors "casestat/internal/errors"
)

// Paths contains the directories a run writes into
type Paths struct {
	OutputDir string
	LogsDir   string
}

// Paths resolves the configured output and log directories. Relative
// directories stay relative to the working directory.
func (c *Config) Paths() *Paths {
	p := &Paths{OutputDir: c.Output.Dir}
	if c.Logging.Output != "console" && c.Logging.FilePath != "" {
		p.LogsDir = filepath.Dir(c.Logging.FilePath)
	}
	return p
}

// EnsureDirectories creates the output and log directories when configured.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError("failed to create directory", err).
				WithContext("path", dir)
		}
	}
	return nil
}

// GetOutputPath resolves filename against the output directory. Absolute
// paths are returned unchanged.
func (p *Paths) GetOutputPath(filename string) string {
	if filename == "" || filepath.IsAbs(filename) || p.OutputDir == "" {
		return filename
	}
	return filepath.Join(p.OutputDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
