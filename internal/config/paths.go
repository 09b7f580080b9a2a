package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// Every path is absolute and anchored at the executable directory unless configured otherwise.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ExportsDir    string
	LogsDir       string

	// Well-known files
	SampleDataCSV string
}

// GetPaths returns the default application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPaths(PathsConfig{
		ExecutableDir: filepath.Dir(exe),
		DataDir:       DefaultDataDir,
		LogsDir:       DefaultLogsDir,
		ExportsDir:    DefaultExportsDir,
	}), nil
}

// NewPaths resolves a PathsConfig into absolute paths.
// Layout:
//
//	<exe>/
//	  ├── data/
//	  │   ├── sample_housing_prices.csv
//	  │   └── exports/
//	  └── logs/
func NewPaths(cfg PathsConfig) *Paths {
	base := cfg.ExecutableDir
	if base == "" {
		base, _ = os.Getwd()
	}

	resolve := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	paths := &Paths{
		ExecutableDir: base,
		DataDir:       resolve(cfg.DataDir, DefaultDataDir),
		ExportsDir:    resolve(cfg.ExportsDir, DefaultExportsDir),
		LogsDir:       resolve(cfg.LogsDir, DefaultLogsDir),
	}
	paths.SampleDataCSV = paths.GetDataPath(SampleDataFile)
	return paths
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ExportsDir,
		p.LogsDir,
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetExportPath returns the path for an exported report
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetDataPath returns the path for a data file
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution() {
	slog.Default().Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("sample_data", p.SampleDataCSV),
			slog.Bool("sample_data_exists", FileExists(p.SampleDataCSV)),
		))
}
