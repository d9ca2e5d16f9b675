package app

import (
	"github.com/spf13/cobra"

	"github.com/go-ldapuser/ldapuser/internal/accounts"
)

func init() { //nolint: gochecknoinits
	groupCreateCmd.Flags().IntVar(&groupGID, "gid", 0, "Group ID")
	groupCreateCmd.Flags().BoolVar(&groupOfNames, "groupofnames", false, "Create a groupOfNames instead of a posixGroup")
	groupCreateCmd.Flags().StringArrayVar(&groupMembers, "member", nil, "Members that belong to the group")

	groupUpdateCmd.Flags().IntVar(&groupGID, "gid", 0, "Group ID")

	groupMemberCmd.Flags().StringVar(&memberAdd, "add", "", "Add a user to the group")
	groupMemberCmd.Flags().StringVar(&memberDel, "del", "", "Remove a user from the group")
	groupMemberCmd.Flags().StringSliceVar(&memberUpdate, "update", nil, "Replace the group's member list")

	groupCmd.AddCommand(groupCreateCmd, groupUpdateCmd, groupDeleteCmd, groupShowCmd, groupMemberCmd)
	rootCmd.AddCommand(groupCmd)
}

var (
	groupGID     int
	groupOfNames bool
	groupMembers []string
	memberAdd    string
	memberDel    string
	memberUpdate []string

	groupCmd = &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	groupCreateCmd = &cobra.Command{
		Use:   "create <group>",
		Short: "Create a new group",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				return m.CreateGroup(accounts.GroupSpec{
					Name:         args[0],
					GID:          groupGID,
					GroupOfNames: groupOfNames,
					Members:      groupMembers,
				})
			})
		},
	}

	groupUpdateCmd = &cobra.Command{
		Use:   "update <group>",
		Short: "Update a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				return m.UpdateGroup(args[0], groupGID)
			})
		},
	}

	groupDeleteCmd = &cobra.Command{
		Use:   "delete <group>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				return m.DeleteGroup(args[0])
			})
		},
	}

	groupShowCmd = &cobra.Command{
		Use:   "show [group]",
		Short: "Show info about group(s)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				name := ""
				if len(args) > 0 {
					name = args[0]
				}

				return m.ShowGroup(name)
			})
		},
	}

	groupMemberCmd = &cobra.Command{
		Use:   "member <group>",
		Short: "Manage group members",
		Long: `Without flags, lists the members of the group. With --add or --del a
single membership is changed; --update replaces the entire member list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				group := args[0]

				switch {
				case memberAdd != "":
					return m.AddMember(group, memberAdd)
				case memberDel != "":
					return m.RemoveMember(group, memberDel)
				case cmd.Flags().Changed("update"):
					return m.SetMembers(group, memberUpdate)
				}

				return m.ShowMembers(group)
			})
		},
	}
)
