package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowc"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flowc version %s\n", strings.TrimSpace(flowc.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
