package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rewards-workers/pkg/registry"
)

var implementationStatuses = []string{"planned", "in-progress", "implemented", "verified"}

func registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Export and check the activity registry",
		Long: `The activity registry describes every task type the workers serve,
with its input and output schemas, error codes and retry policy.`,
	}

	cmd.AddCommand(registryExportCmd())
	cmd.AddCommand(registryValidateCmd())
	cmd.AddCommand(registrySetStatusCmd())

	return cmd
}

func registryExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in registry as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.Builtin()
			if out == "" {
				return writeJSON(cmd.OutOrStdout(), reg)
			}
			if err := registry.SaveRegistry(out, reg); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(reg.Activities), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}

func registryValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check task types and schemas in a registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.Builtin()
			source := "built-in registry"
			if file != "" {
				loaded, err := registry.LoadRegistry(file)
				if err != nil {
					return err
				}
				reg, source = loaded, file
			}

			errs := reg.Validate()
			for _, e := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%s: %d problem(s)", source, len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d activities OK\n", source, len(reg.Activities))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "registry file (default: built-in registry)")
	return cmd
}

func registrySetStatusCmd() *cobra.Command {
	var file, taskType, status string

	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Update the implementation status of one activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !validStatus(status) {
				return fmt.Errorf("status must be one of %s", strings.Join(implementationStatuses, ", "))
			}
			reg, err := registry.LoadRegistry(file)
			if err != nil {
				return err
			}
			a, ok := reg.Find(taskType)
			if !ok {
				return fmt.Errorf("task type %q not found in %s", taskType, file)
			}
			a.ImplementationStatus = status
			if err := registry.SaveRegistry(file, reg); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", taskType, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "configs/activity-registry.json", "registry file to update")
	cmd.Flags().StringVar(&taskType, "task", "", "task type to update")
	cmd.Flags().StringVar(&status, "status", "", "new status: "+strings.Join(implementationStatuses, ", "))
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func validStatus(s string) bool {
	for _, known := range implementationStatuses {
		if s == known {
			return true
		}
	}
	return false
}
