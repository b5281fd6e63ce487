package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/internal/presentation/tui"
	"github.com/aretw0/flowc/pkg/adapters/file"
	"github.com/aretw0/flowc/pkg/adapters/process"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <program>",
	Short: "Generate and compile a program",
	Long: `Generates the program into --dir and runs the configured toolchain on it.
On success it prints the debugger command that loads the breakpoints.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		p, err := loadProgram(cmd, args[0])
		if err != nil {
			return err
		}
		tc, err := loadToolchain(cmd)
		if err != nil {
			return err
		}

		writer := file.NewArtifactWriter(workDir(cmd), file.WithLogger(logger))
		compiler := flowc.New(
			flowc.WithLogger(logger),
			flowc.WithArtifactSink(writer),
			flowc.WithBuilder(process.NewBuilder(tc, process.WithLogger(logger))),
		)

		res, err := compiler.Build(cmd.Context(), p, writer.SourcePath(p.Name))
		if res != nil && strings.TrimSpace(res.Output) != "" {
			fmt.Print(res.Output)
		}
		if err != nil {
			fmt.Println(tui.Status("build failed", false))
			return err
		}

		fmt.Printf("%s %s (%s)\n", tui.Status("built", true), res.Binary, res.Duration.Round(time.Millisecond))
		fmt.Println(strings.Join(tc.DebugCommand(res.Binary, writer.BreakpointPath(p.Name)), " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
