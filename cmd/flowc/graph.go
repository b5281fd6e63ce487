package main

import (
	"fmt"

	"github.com/aretw0/flowc/internal/presentation/graph"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <program>",
	Short: "Export a function flowchart as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of one function of the program. Nodes with breakpoints are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProgram(cmd, args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("function")
		f, ok := p.Function(name)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrFunctionNotFound, name)
		}

		var overlay *graph.GraphOverlay
		if current, _ := cmd.Flags().GetString("current"); current != "" {
			tag, err := domain.ParseTag(current)
			if err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{Current: tag}
		}

		fmt.Print(graph.GenerateMermaid(f, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("function", "main", "Function to export")
	graphCmd.Flags().String("current", "", "Tag of the node to highlight as current")
}
