package config

import "fmt"

// Variant selects between the release and debug builds of every module.
type Variant int

const (
	Release Variant = iota
	Debug
)

func (v Variant) String() string {
	switch v {
	case Release:
		return "release"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Qualify returns the variant-specific name of a module or library: debug
// builds link against the "d" suffixed libraries.
func (v Variant) Qualify(name string) string {
	if v == Debug {
		return name + "d"
	}
	return name
}
