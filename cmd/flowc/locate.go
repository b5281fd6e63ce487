package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate <program> <line>",
	Short: "Show which node produced a line of the generated source",
	Long: `Maps a 1-based line of the generated source back to the node that produced it,
the way the debugger bridge does when execution stops.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProgram(cmd, args[0])
		if err != nil {
			return err
		}
		line, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid line %q: %w", args[1], err)
		}

		compiler := flowc.New()
		listing, err := compiler.Compile(cmd.Context(), p)
		if err != nil {
			return err
		}
		tag := compiler.Bridge(listing).NodeAt(line)
		if tag == domain.NoTag {
			text, _ := listing.Line(line)
			return fmt.Errorf("line %d has no originating node (%q)", line, text.Text)
		}

		f, n, _ := p.FindNode(tag)
		fmt.Printf("%s:%d -> node %s (%s) in %s, lines %v\n", p.Name+".c", line, tag, n.Kind(), f.Name(), n.Lines)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
