package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultToolchainFile is looked up in the working directory.
const DefaultToolchainFile = "toolchain.yaml"

// Toolchain describes how generated sources are compiled and debugged.
type Toolchain struct {
	Compiler string            `yaml:"compiler" json:"compiler"`
	Flags    []string          `yaml:"flags" json:"flags"`
	Output   string            `yaml:"output" json:"output"`
	Debugger string            `yaml:"debugger" json:"debugger"`
	Env      map[string]string `yaml:"env" json:"env"`
}

// DefaultToolchain compiles with debug info and no optimisation so every
// generated line stays steppable.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Compiler: "gcc",
		Flags:    []string{"-g", "-O0"},
		Debugger: "gdb",
	}
}

// LoadToolchain reads a toolchain file (YAML or JSON). A missing file yields
// the defaults; fields left empty in the file keep their default value.
func LoadToolchain(path string) (Toolchain, error) {
	tc := DefaultToolchain()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tc, nil
		}
		return tc, fmt.Errorf("failed to read toolchain config: %w", err)
	}

	var cfg Toolchain
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return tc, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return tc, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if cfg.Compiler != "" {
		tc.Compiler = cfg.Compiler
	}
	if cfg.Flags != nil {
		tc.Flags = cfg.Flags
	}
	if cfg.Debugger != "" {
		tc.Debugger = cfg.Debugger
	}
	tc.Output = cfg.Output
	tc.Env = cfg.Env
	return tc, nil
}

// BinaryFor returns the executable produced for a source file.
func (tc Toolchain) BinaryFor(sourcePath string) string {
	if tc.Output != "" {
		return tc.Output
	}
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
}

// DebugCommand returns the debugger invocation that loads the breakpoint
// directives before running the binary.
func (tc Toolchain) DebugCommand(binary, breakpointFile string) []string {
	return []string{tc.Debugger, "-q", "-x", breakpointFile, binary}
}
