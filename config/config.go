// Package config reads a t3c.yaml project file describing the modules to
// compile, preprocessor-style defines, and the output object-file path,
// falling back to CLI flags when no project file is given.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the parsed contents of a t3c.yaml project file.
type Project struct {
	// Modules lists source file paths, in the order they are compiled and
	// linked into the translation unit.
	Modules []string `yaml:"modules"`

	// Defines are preprocessor-style name/value pairs read from the project
	// file; an empty value marks a bare define. They are only recorded here:
	// the compile pipeline does not pass them to source modules.
	Defines map[string]string `yaml:"defines"`

	// Output is the compiled object-file path.
	Output string `yaml:"output"`

	// SymbolImports lists symbol-export files to merge into the symbol
	// table before compiling Modules.
	SymbolImports []string `yaml:"symbolImports"`

	// Debug is the config-file counterpart of the command-line -d/--debug
	// flag (FromFlags copies the flag into it). The CLI takes its log level
	// from the flag itself and does not consult this field.
	Debug bool `yaml:"debug"`
}

// Load reads and parses a t3c.yaml project file at path.
func Load(path string) (*Project, error) {
	data, err:= os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var p Project
	if err:= yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &p, nil
}

// FromFlags builds a Project directly from CLI flag values, used when no
// t3c.yaml project file is present.
func FromFlags(files []string, output string, debug bool) *Project {
	return &Project{Modules: files, Output: output, Debug: debug}
}
