package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/flowc/internal/logging"
	"github.com/aretw0/flowc/pkg/adapters/file"
	"github.com/aretw0/flowc/pkg/adapters/process"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowc",
	Short: "flowc turns flowcharts into C programs",
	Long: `flowc generates C source from flowchart documents, keeps track of which
node produced every line, and hands breakpoints to the debugger.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory holding programs and generated artifacts")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("toolchain", process.DefaultToolchainFile, "Toolchain config, relative to --dir unless absolute")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func workDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("dir")
	return dir
}

func loadToolchain(cmd *cobra.Command) (process.Toolchain, error) {
	path, _ := cmd.Flags().GetString("toolchain")
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir(cmd), path)
	}
	return process.LoadToolchain(path)
}

// loadProgram resolves a program argument: an existing document path, or
// the name of a program stored in --dir.
func loadProgram(cmd *cobra.Command, arg string) (*domain.Program, error) {
	if _, err := os.Stat(arg); err == nil {
		return file.LoadFile(arg)
	}
	return file.New(workDir(cmd)).Load(cmd.Context(), arg)
}
