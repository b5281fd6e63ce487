package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/flowc/internal/presentation/tui"
	"github.com/aretw0/flowc/internal/validator"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("program is not valid")

var validateCmd = &cobra.Command{
	Use:   "validate <program>",
	Short: "Check the program for consistency",
	Long: `Reports uninitialized nodes, which block generation, and structural problems
such as dangling connections, unreachable nodes or inputs of undeclared variables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProgram(cmd, args[0])
		if err != nil {
			return err
		}

		failed := false
		if err := validator.Ready(p); err != nil {
			failed = true
			for _, e := range validator.ValidationErrors(err) {
				fmt.Printf("%s %v\n", tui.Status("error", false), e)
			}
		}
		issues := validator.Check(p)
		for _, issue := range issues {
			fmt.Printf("%s %s\n", tui.Status(string(issue.Severity), issue.Severity != validator.SeverityError), issue)
		}
		if failed || validator.HasErrors(issues) {
			return errInvalid
		}
		fmt.Printf("%s %s is valid\n", tui.Status("ok", true), p.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
