package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/internal/config"
	"github.com/redmonkez12/storefront-api/internal/database"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/shop"
	"github.com/redmonkez12/storefront-api/internal/token"
	"github.com/redmonkez12/storefront-api/internal/user"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "storefrontctl",
		Short:        "Operational tasks for the storefront API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("database", "", "Database URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and shops tables if they do not exist",
		RunE:  runMigrate,
	}

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a customer account with the admin role",
		RunE:  runCreateAdmin,
	}
	createAdminCmd.Flags().String("name", "Administrator", "Display name")
	createAdminCmd.Flags().String("email", "", "Login email")
	createAdminCmd.Flags().String("password", "", "Login password")
	createAdminCmd.Flags().String("avatar", "avatars/default.png", "Avatar path")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	issueTokenCmd := &cobra.Command{
		Use:   "issue-token <user-id>",
		Short: "Mint a customer token for an existing user id",
		Args:  cobra.ExactArgs(1),
		RunE:  runIssueToken,
	}

	rootCmd.AddCommand(migrateCmd, createAdminCmd, issueTokenCmd)
	return rootCmd
}

// env holds what every subcommand needs. Close releases the database.
type env struct {
	cfg    *config.Config
	db     *bun.DB
	logger *logging.Logger
	users  *user.Repository
	shops  *shop.Repository
}

func (e *env) Close() {
	e.db.Close()
	_ = e.logger.Sync()
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dsn, _ := cmd.Flags().GetString("database"); dsn != "" {
		cfg.Database.URL = dsn
	}

	logger := logging.Nop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = logging.NewLogger(true)
	}

	db, err := database.Open(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		db:     db,
		logger: logger,
		users:  user.NewRepository(db),
		shops:  shop.NewRepository(db),
	}, nil
}

func (e *env) migrate(ctx context.Context) error {
	if err := e.users.CreateTables(ctx); err != nil {
		return err
	}
	return e.shops.CreateTables(ctx)
}

func (e *env) userService() (*user.Service, error) {
	codec, err := token.New(e.cfg.Auth.TokenFormat, e.cfg.Auth.Secret(), e.cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	return user.NewService(e.users, codec, e.logger), nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.migrate(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tables ready (%s)\n", database.DetectDialect(e.cfg.Database.URL))
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	pass, _ := cmd.Flags().GetString("password")
	avatar, _ := cmd.Flags().GetString("avatar")

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.migrate(cmd.Context()); err != nil {
		return err
	}

	svc, err := e.userService()
	if err != nil {
		return err
	}

	admin, err := svc.CreateAdmin(cmd.Context(), user.RegisterInput{
		Name:     name,
		Email:    email,
		Password: pass,
		Avatar:   avatar,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "admin created: %s\n", admin.ID)
	return nil
}

func runIssueToken(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := e.userService()
	if err != nil {
		return err
	}

	tok, err := svc.IssueToken(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
