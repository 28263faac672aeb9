package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/keyframes/internal/project"
)

func newProjectsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage stored projects",
		Long:  `List, import, export and delete the projects kept in --projects-dir as <id>.yaml files.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.store().List()
			if err != nil {
				return err
			}
			if list == nil {
				list = []project.Summary{}
			}
			return a.print(list)
		},
	})

	var id string
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a project file and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Read(args[0])
			if err != nil {
				return err
			}
			if err := project.Validate(p); err != nil {
				return fmt.Errorf("refusing to import invalid project: %w", err)
			}
			saved, err := a.store().Save(id, p)
			if err != nil {
				return err
			}
			return a.print(map[string]string{"id": saved})
		},
	}
	importCmd.Flags().StringVar(&id, "id", "", "project id (default: derived from the project name)")
	cmd.AddCommand(importCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.store().Load(args[0])
			if err != nil {
				return err
			}
			return a.print(p)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store().Delete(args[0]); err != nil {
				return err
			}
			return a.print(map[string]string{"deleted": args[0]})
		},
	})

	return cmd
}
