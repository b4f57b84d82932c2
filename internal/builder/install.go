package builder

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pyvoip/configure/internal/builder/gen"
	"github.com/pyvoip/configure/internal/errors"
)

// packageInit is installed next to the extension modules, making the
// install directory the pyvoip package.
const packageInit = "sip/__init__.py"

// installs returns the fixed install mapping with its file patterns expanded
// relative to sourceDir.
func installs(sourceDir, moduleDir string) ([]gen.Install, error) {
	files, err := expandPatterns(sourceDir, []string{packageInit})
	if err != nil {
		return nil, err
	}
	return []gen.Install{{Files: files, Dir: filepath.Join(moduleDir, "pyvoip")}}, nil
}

// expandPatterns expands glob patterns against the files under dir. A
// pattern matching nothing is kept as written, so a literal path is always
// installed even if it does not exist yet.
func expandPatterns(dir string, patterns []string) ([]string, error) {
	fsys := os.DirFS(dir)

	var files []string
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, errors.Errorf("invalid install pattern %q", pat)
		}
		matches, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.WithStackTraceAndPrefix(err, "while globbing %s", pat)
		}
		if len(matches) == 0 {
			files = append(files, pat)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}
