package main

import "github.com/spf13/cobra"

func newGroupsCmd(runners runnerFactory) *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List all groups",
		Args:  cobra.NoArgs,
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			groups, err := a.service.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			return a.printer.Groups(groups)
		}),
	}
	members := &cobra.Command{
		Use:   "members <name>",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: run(runners, func(cmd *cobra.Command, args []string, a *app) error {
			list, err := a.service.GroupMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer.GroupMembers(args[0], list)
		}),
	}

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage contact groups",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.AddCommand(list, members)
	return cmd
}
