// Package app implements the ldapuser command tree.
package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-ldapuser/ldapuser/internal/accounts"
	"github.com/go-ldapuser/ldapuser/internal/config"
	"github.com/go-ldapuser/ldapuser/internal/directory"
	"github.com/go-ldapuser/ldapuser/internal/idalloc"
	"github.com/go-ldapuser/ldapuser/internal/logger"
)

var configPath string // Path to the configuration file

var rootCmd = &cobra.Command{
	Use:   "ldapuser",
	Short: "ldapuser manages posix users and groups in an LDAP directory",
	Long: `ldapuser is a command-line client that manages user and group entries
in an LDAP directory: it allocates collision-free uid/gid numbers, encodes
SSHA passwords and keeps group membership in sync with each user's group list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// session loads the configuration, opens one directory session and hands an
// entity manager to fn. The session is released on every exit path; any
// failure is logged with context and returned so the process exits non-zero.
func session(fn func(m *accounts.Manager) error) error {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		log.Error().Err(err).Msg("can't load configuration")

		return err
	}

	if err = logger.Init(cfg.Log); err != nil {
		log.Error().Err(err).Msg("can't initialize logging")

		return err
	}

	conn, err := directory.Connect(directory.Config{
		Server:       cfg.LDAP.Server,
		BindDN:       cfg.LDAP.BindDN,
		BindPassword: cfg.LDAP.BindPW,
		Timeout:      cfg.LDAP.Timeout,
		StartTLS:     cfg.LDAP.StartTLS,
		SkipVerify:   cfg.LDAP.SkipVerify,
	})
	if err != nil {
		log.Error().Err(err).Str("server", cfg.LDAP.Server).Msg("can't connect to LDAP server")

		return err
	}
	defer conn.Close()

	log.Debug().Str("server", cfg.LDAP.Server).Msg("LDAP connection initialized")

	m := accounts.NewManager(conn, accounts.Config{
		UserBaseDN:  cfg.User.BaseDN,
		GroupBaseDN: cfg.Group.BaseDN,
		MailDomain:  cfg.User.MailDomain,
		UserIDs:     idRange(cfg.User.MinUID, cfg.User.MaxUID),
		GroupIDs:    idRange(cfg.User.MinGID, cfg.User.MaxGID),
	}, os.Stdout)

	if err = fn(m); err != nil {
		log.Error().Err(err).Msg("command failed")

		return err
	}

	return nil
}

func idRange(minID, maxID int) idalloc.Range {
	return idalloc.Range{Min: minID, Max: maxID}
}
