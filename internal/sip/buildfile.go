package sip

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// BuildFile is the parsed content of a .sbf build descriptor.
type BuildFile struct {
	Target  string
	Sources []string
	Headers []string
}

// ParseBuildFile reads the "key = value" lines sip writes to a build
// descriptor. Unknown keys are ignored.
func ParseBuildFile(rdr io.Reader) (*BuildFile, error) {
	bf := new(BuildFile)
	scanner := bufio.NewScanner(rdr)
	// sip writes every generated source on a single line
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value, got %q", lineno, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "target":
			bf.Target = value
		case "sources":
			bf.Sources = strings.Fields(value)
		case "headers":
			bf.Headers = strings.Fields(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if bf.Target == "" {
		return nil, fmt.Errorf("no target in build file")
	}
	if len(bf.Sources) == 0 {
		return nil, fmt.Errorf("no sources in build file")
	}
	return bf, nil
}

// ParseBuildFileFromPath parses the build descriptor at path
func ParseBuildFileFromPath(path string) (*BuildFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bf, err := ParseBuildFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bf, nil
}
