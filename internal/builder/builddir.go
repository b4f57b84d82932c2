package builder

import (
	"os"
	"path/filepath"

	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/errors"
	"github.com/pyvoip/configure/internal/msg"
	"github.com/pyvoip/configure/internal/sip"
)

// CleanResult tells what cleanDir found.
type CleanResult int

const (
	CleanNothing CleanResult = iota
	CleanRemoved
)

func (r CleanResult) String() string {
	if r == CleanRemoved {
		return "removed"
	}
	return "nothing to clean"
}

// BuildDir is the absolute build directory of module name for the variant.
func BuildDir(cfg *config.Config, name string, variant config.Variant) (string, error) {
	dir, err := filepath.Abs(filepath.Join(cfg.Paths.Build, name, variant.String()))
	if err != nil {
		return "", errors.WithStackTrace(err)
	}
	return dir, nil
}

// PrepareBuildDir returns an empty build directory for module name. A
// directory that holds the module's interface file is left untouched and
// reported as BuildDirOccupiedError.
func PrepareBuildDir(cfg *config.Config, name string, variant config.Variant) (string, error) {
	dir, err := BuildDir(cfg, name, variant)
	if err != nil {
		return "", err
	}

	modFile := sip.ModFile(name)
	if _, err := os.Stat(filepath.Join(dir, modFile)); err == nil {
		return "", errors.WithStackTrace(BuildDirOccupiedError{Dir: dir, File: modFile})
	}

	res, err := cleanDir(dir)
	if err != nil {
		return "", err
	}
	msg.Debug("%s: %s", dir, res)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.WithStackTrace(BuildDirCreateError{Dir: dir, Err: err})
	}
	return dir, nil
}

// cleanDir removes dir and everything in it. A dir that can not be found is
// not an error.
func cleanDir(dir string) (CleanResult, error) {
	if _, err := os.Lstat(dir); err != nil {
		return CleanNothing, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return CleanNothing, errors.WithStackTrace(CleanError{Dir: dir, Err: err})
	}
	return CleanRemoved, nil
}
