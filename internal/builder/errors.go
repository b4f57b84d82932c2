package builder

import "fmt"

// Custom error types

// BuildDirOccupiedError means the build directory holds the module's own
// interface files, so it is a source directory and must not be cleaned.
type BuildDirOccupiedError struct {
	Dir  string
	File string
}

func (err BuildDirOccupiedError) Error() string {
	return fmt.Sprintf("%s contains %s, refusing to use it as a build directory", err.Dir, err.File)
}

type CleanError struct {
	Dir string
	Err error
}

func (err CleanError) Error() string {
	return fmt.Sprintf("can not remove build directory %s: %v", err.Dir, err.Err)
}

func (err CleanError) Unwrap() error { return err.Err }

type BuildDirCreateError struct {
	Dir string
	Err error
}

func (err BuildDirCreateError) Error() string {
	return fmt.Sprintf("can not create build directory %s: %v", err.Dir, err.Err)
}

func (err BuildDirCreateError) Unwrap() error { return err.Err }

// MissingDescriptorError means sip did not write the build descriptor.
type MissingDescriptorError struct {
	Module string
	Path   string
}

func (err MissingDescriptorError) Error() string {
	return fmt.Sprintf("sip did not generate %s for module %q", err.Path, err.Module)
}

type ScriptWriteError struct {
	Path string
	Err  error
}

func (err ScriptWriteError) Error() string {
	return fmt.Sprintf("can not write build script %s: %v", err.Path, err.Err)
}

func (err ScriptWriteError) Unwrap() error { return err.Err }
