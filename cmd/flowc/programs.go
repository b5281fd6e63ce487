package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/flowc/internal/dto"
	"github.com/aretw0/flowc/pkg/domain"
	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Manage stored programs",
	Long:  `Create, list, inspect and remove the programs stored in --dir (or in Redis with --redis).`,
}

var programsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		manager, closeStore := newManager(cmd, logger)
		defer closeStore()

		names, err := manager.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list programs: %w", err)
		}
		if len(names) == 0 {
			fmt.Println("No programs found.")
			return nil
		}
		for _, name := range names {
			fmt.Println("- " + name)
		}
		return nil
	},
}

var programsNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a program with an empty main function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		manager, closeStore := newManager(cmd, logger)
		defer closeStore()

		if _, err := manager.Load(cmd.Context(), args[0]); err == nil {
			return fmt.Errorf("program %q already exists", args[0])
		} else if !errors.Is(err, domain.ErrProgramNotFound) {
			return err
		}
		headers, _ := cmd.Flags().GetStringSlice("header")
		p := domain.NewProgram(args[0])
		p.Headers = headers
		if err := manager.Save(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Printf("Created program '%s'\n", args[0])
		return nil
	},
}

var programsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored program document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		manager, closeStore := newManager(cmd, logger)
		defer closeStore()

		p, err := manager.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		data, err := dto.Marshal(p, dto.Format(format))
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var programsRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Remove one or more programs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := newLogger(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		manager, closeStore := newManager(cmd, logger)
		defer closeStore()
		hasError := false

		for _, name := range args {
			if err := manager.Delete(cmd.Context(), name); err != nil {
				fmt.Printf("Error removing '%s': %v\n", name, err)
				hasError = true
			} else {
				fmt.Printf("Removed program '%s'\n", name)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
	programsCmd.AddCommand(programsLsCmd, programsNewCmd, programsShowCmd, programsRmCmd)
	programsCmd.PersistentFlags().String("redis", "", "Redis address (host:port); stores programs in Redis instead of --dir")
	programsCmd.PersistentFlags().Bool("read-only", false, "Reject edits to stored programs")
	programsNewCmd.Flags().StringSlice("header", nil, "Standard header to include, e.g. math.h (repeatable)")
	programsShowCmd.Flags().String("format", "yaml", "Output format: yaml or json")
}
