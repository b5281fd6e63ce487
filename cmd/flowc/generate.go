package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/internal/presentation/tui"
	"github.com/aretw0/flowc/pkg/adapters/file"
	"github.com/aretw0/flowc/pkg/observability"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var generateCmd = &cobra.Command{
	Use:   "generate <program>",
	Short: "Generate C source from a program",
	Long: `Generates the C source of a program document (or of a program stored in --dir)
and writes <name>.c plus the <name>.gdb breakpoint directives next to it.
Files are only rewritten when their content changed.`,
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

		opts := []flowc.Option{
			flowc.WithLogger(logger),
			flowc.WithLifecycleHooks(observability.LogHooks(logger)),
		}
		if indent, _ := cmd.Flags().GetInt("indent"); indent > 0 {
			opts = append(opts, flowc.WithIndent(strings.Repeat(" ", indent)))
		}
		noWrite, _ := cmd.Flags().GetBool("stdout")
		if !noWrite {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = workDir(cmd)
			}
			opts = append(opts, flowc.WithArtifactSink(file.NewArtifactWriter(out, file.WithLogger(logger))))
		}

		listing, changed, err := flowc.New(opts...).Emit(cmd.Context(), p)
		if err != nil {
			return err
		}

		fd := int(os.Stdout.Fd())
		if term.IsTerminal(fd) {
			width, _, err := term.GetSize(fd)
			if err != nil {
				width = 80
			}
			rendered, err := tui.RenderListing(p.Name+".c", listing, width)
			if err == nil {
				fmt.Print(rendered)
				if !noWrite && !changed {
					fmt.Println(tui.Status("unchanged", true))
				}
				return nil
			}
			logger.Debug("falling back to plain output", "err", err)
		}
		fmt.Print(listing.Source())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("out", "", "Directory for the generated files (default: --dir)")
	generateCmd.Flags().Bool("stdout", false, "Only print the source, write no files")
	generateCmd.Flags().Int("indent", 0, "Spaces per nesting level (default: 2)")
}
