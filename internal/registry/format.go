package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const separatorWidth = 60

// Output formats understood by Format.
const (
	FormatText = "text"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ModuleReport is everything the registry knows about one name.
type ModuleReport struct {
	Name        string   `json:"name"`
	Deps        []string `json:"deps"`
	Libs        []string `json:"libs"`
	IncludeDirs []string `json:"includeDirs,omitempty"`
	LibDirs     []string `json:"libDirs,omitempty"`
}

// Report resolves name and its directories.
func (r *Registry) Report(name string) (ModuleReport, error) {
	libs, err := r.Resolve(name)
	if err != nil {
		return ModuleReport{}, err
	}
	includes, err := r.IncludeDirs(name)
	if err != nil {
		return ModuleReport{}, err
	}
	libDirs, err := r.LibDirs(name)
	if err != nil {
		return ModuleReport{}, err
	}
	deps, _ := r.Deps(name)

	return ModuleReport{
		Name:        name,
		Deps:        deps,
		Libs:        libs,
		IncludeDirs: includes,
		LibDirs:     libDirs,
	}, nil
}

// Format renders the reports of names in one of the Format* formats.
func (r *Registry) Format(format string, names []string) (string, error) {
	reports := make([]ModuleReport, 0, len(names))
	for _, name := range names {
		report, err := r.Report(name)
		if err != nil {
			return "", err
		}
		reports = append(reports, report)
	}

	switch format {
	case FormatText:
		return toText(reports), nil
	case FormatDOT:
		return toDOT(reports), nil
	case FormatJSON:
		b, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	default:
		return "", fmt.Errorf("unknown graph format %q", format)
	}
}

func toDOT(reports []ModuleReport) string {
	var buf bytes.Buffer

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	for _, report := range reports {
		fmt.Fprintf(&buf, "  %q;\n", report.Name)
	}
	buf.WriteString("\n")

	// edge order is link order
	for _, report := range reports {
		for _, dep := range report.Deps {
			fmt.Fprintf(&buf, "  %q -> %q;\n", report.Name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func toText(reports []ModuleReport) string {
	var buf bytes.Buffer

	for i, report := range reports {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(report.Name + "\n")
		buf.WriteString(strings.Repeat("=", separatorWidth) + "\n")
		fmt.Fprintf(&buf, "Direct dependencies: %s\n", joinOrNone(report.Deps))
		fmt.Fprintf(&buf, "Link order:          %s\n", joinOrNone(report.Libs))
		writeList(&buf, "Include directories", report.IncludeDirs)
		writeList(&buf, "Library directories", report.LibDirs)
	}

	return buf.String()
}

func writeList(buf *bytes.Buffer, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(buf, "%s: (none)\n", title)
		return
	}
	fmt.Fprintf(buf, "%s:\n", title)
	for i, item := range items {
		connector := "├── "
		if i == len(items)-1 {
			connector = "└── "
		}
		buf.WriteString(connector + item + "\n")
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, " ")
}
