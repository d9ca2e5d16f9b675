package app

import (
	"github.com/spf13/cobra"

	"github.com/go-ldapuser/ldapuser/internal/accounts"
)

func init() { //nolint: gochecknoinits
	for _, cmd := range []*cobra.Command{userCreateCmd, userUpdateCmd} {
		cmd.Flags().IntVar(&userUID, "uid", 0, "User ID")
		cmd.Flags().IntVar(&userGID, "gid", 0, "Group ID")
		cmd.Flags().StringArrayVar(&userGroups, "group", nil, "Additional groups the user belongs to")
		cmd.Flags().StringVar(&userPassword, "pass", "", "Password (generated when omitted)")
		cmd.Flags().StringVar(&userHome, "home", "", "Home directory")
		cmd.Flags().StringVar(&userShell, "shell", "", "Default shell")
		cmd.Flags().StringVar(&userGecos, "gecos", "", "Gecos")
		cmd.Flags().StringVar(&userSSHKey, "sshkey", "", "Path to a public SSH key file")
		cmd.Flags().StringArrayVar(&userHosts, "host", nil, "Hosts the user has access to")
		cmd.Flags().StringVar(&userMail, "mail", "", "User email address")
	}

	userCmd.AddCommand(userCreateCmd, userUpdateCmd, userDeleteCmd, userShowCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	userUID      int
	userGID      int
	userGroups   []string
	userPassword string
	userHome     string
	userShell    string
	userGecos    string
	userSSHKey   string
	userHosts    []string
	userMail     string

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	userCreateCmd = &cobra.Command{
		Use:   "create <user>",
		Short: "Create a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				return m.CreateUser(userSpec(cmd, args[0]))
			})
		},
	}

	userUpdateCmd = &cobra.Command{
		Use:   "update <user>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				return m.UpdateUser(userSpec(cmd, args[0]))
			})
		},
	}

	userDeleteCmd = &cobra.Command{
		Use:   "delete <user>",
		Short: "Delete a user and its primary group",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				return m.DeleteUser(args[0])
			})
		},
	}

	userShowCmd = &cobra.Command{
		Use:   "show [user]",
		Short: "Show info about user(s)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return session(func(m *accounts.Manager) error {
				name := ""
				if len(args) > 0 {
					name = args[0]
				}

				return m.ShowUser(name)
			})
		},
	}
)

// userSpec collects the shared create/update flags. Whether --group was
// supplied at all decides if membership gets reconciled on update.
func userSpec(cmd *cobra.Command, name string) accounts.UserSpec {
	return accounts.UserSpec{
		Name:      name,
		UID:       userUID,
		GID:       userGID,
		Groups:    userGroups,
		GroupsSet: cmd.Flags().Changed("group"),
		Password:  userPassword,
		Home:      userHome,
		Shell:     userShell,
		Gecos:     userGecos,
		Mail:      userMail,
		SSHKey:    userSSHKey,
		Hosts:     userHosts,
	}
}
