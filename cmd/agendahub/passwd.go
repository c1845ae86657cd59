package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/agendahub/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/agendahub/internal/application"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Set an administrator password",
	Long: `Set the password for an administrator account, creating the account
if it does not exist. The password is stored as a bcrypt hash.`,
	RunE: runPasswd,
}

var (
	usernameFlag string
	passwordFlag string
)

func init() {
	passwdCmd.Flags().StringVar(&usernameFlag, "username", "admin", "Account to update")
	passwdCmd.Flags().StringVar(&passwordFlag, "password", "", "New password")
	_ = passwdCmd.MarkFlagRequired("password")
}

func runPasswd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(db)

	kv := sqliteadapter.NewKVRepo(db)
	if err := application.Seed(ctx, kv, slog.Default()); err != nil {
		return err
	}

	// The login form trims its input, so surrounding whitespace could never match.
	password := strings.TrimSpace(passwordFlag)

	sessions := application.NewSessionService(kv, slog.Default())
	if err := sessions.SetPassword(ctx, strings.TrimSpace(usernameFlag), password); err != nil {
		return fmt.Errorf("setting password: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", usernameFlag)
	return nil
}
