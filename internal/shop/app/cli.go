package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/cryptox"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the shop command tree. Configuration comes from the
// environment; the persistent flags override the matching variables.
func NewRootCmd() *cobra.Command {
	var (
		cfg            Config
		port           int
		databaseDriver string
		databaseURL    string
	)

	root := &cobra.Command{
		Use:   "shop",
		Short: "Shopping cart backend",
		Long: `shop serves the shopping cart HTTP API and carries the operator
commands used to migrate the database, seed products and create accounts.

Settings are read from the environment (JWT_SECRET, DATABASE_DRIVER,
DATABASE_URL, REDIS_URL, ...). Flags override the matching variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := parseEnv()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("port") {
				loaded.Port = port
			}
			if flags.Changed("database-driver") {
				loaded.DatabaseDriver = databaseDriver
			}
			if flags.Changed("database-url") {
				loaded.DatabaseURL = databaseURL
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.IntVar(&port, "port", 8080, "HTTP listen port (env: PORT)")
	pf.StringVar(&databaseDriver, "database-driver", DriverSQLite, "sqlite or postgres (env: DATABASE_DRIVER)")
	pf.StringVar(&databaseURL, "database-url", "shop.db", "SQLite path or postgres DSN (env: DATABASE_URL)")

	root.AddCommand(
		newServeCmd(&cfg),
		newMigrateCmd(&cfg),
		newProductsCmd(&cfg),
		newUsersCmd(&cfg),
		newSecretCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := New(*cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

func newMigrateCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), *cfg, func(ctx context.Context, st store.Store) error {
				if err := st.ApplyMigrations(); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newProductsCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product stock table",
	}

	var in service.ProductInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), *cfg, func(ctx context.Context, st store.Store) error {
				svc := &service.ProductService{Store: st}
				p, err := svc.Create(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created product %d (%s)\n", p.ID, p.Name)
				return nil
			})
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "Product name")
	add.Flags().Float64Var(&in.Price, "price", 0, "Unit price")
	add.Flags().IntVar(&in.Stock, "stock", 0, "Units in stock")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), *cfg, func(ctx context.Context, st store.Store) error {
				svc := &service.ProductService{Store: st}
				products, err := svc.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
				for _, p := range products {
					fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
				}
				return tw.Flush()
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newUsersCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	var username, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Long:  "Create an account. Without --password the password is read from the first line of stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = pw
			}

			return withStore(cmd.Context(), *cfg, func(ctx context.Context, st store.Store) error {
				hasher, err := cryptox.NewHasher(cfg.BcryptCost, 1)
				if err != nil {
					return err
				}
				svc := &service.CredentialService{Store: st, Hasher: hasher}
				ident, err := svc.Create(ctx, service.RegisterInput{Username: username, Password: password})
				if errors.Is(err, service.ErrAlreadyExists) {
					return fmt.Errorf("username %q already exists", username)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", ident.Username, ident.UserID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&username, "username", "", "Username")
	add.Flags().StringVar(&password, "password", "", "Password (prefer stdin)")
	_ = add.MarkFlagRequired("username")

	var newPassword string
	passwd := &cobra.Command{
		Use:   "passwd <username|user-id>",
		Short: "Replace an account's password",
		Long:  "Replace an account's password. Without --password the password is read from the first line of stdin. Tokens already issued stay valid until they expire.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newPassword == "" {
				pw, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				newPassword = pw
			}

			return withStore(cmd.Context(), *cfg, func(ctx context.Context, st store.Store) error {
				hasher, err := cryptox.NewHasher(cfg.BcryptCost, 1)
				if err != nil {
					return err
				}
				svc := &service.CredentialService{Store: st, Hasher: hasher}
				ident, err := svc.SetPassword(ctx, args[0], newPassword)
				if err != nil {
					return userErr(args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated password for %s (%s)\n", ident.Username, ident.UserID)
				return nil
			})
		},
	}
	passwd.Flags().StringVar(&newPassword, "password", "", "New password (prefer stdin)")

	del := &cobra.Command{
		Use:   "delete <username|user-id>",
		Short: "Delete an account and its cart",
		Long:  "Delete an account and its cart. Tokens issued to it are rejected from then on.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), *cfg, func(ctx context.Context, st store.Store) error {
				svc := &service.CredentialService{Store: st}
				ident, err := svc.Delete(ctx, args[0])
				if err != nil {
					return userErr(args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s (%s)\n", ident.Username, ident.UserID)
				return nil
			})
		},
	}

	cmd.AddCommand(add, passwd, del)
	return cmd
}

func userErr(ref string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no user %q", ref)
	}
	return err
}

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Print a random value suitable for JWT_SECRET",
		Args:  cobra.NoArgs,
		// No config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cryptox.GenerateSecret(cryptox.SecretSize)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the build version",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), BuildVersion)
		},
	}
}

// withStore opens the configured store for an operator command. Operator
// commands log to stderr so their stdout stays parseable.
func withStore(ctx context.Context, cfg Config, fn func(ctx context.Context, st store.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.New(slogx.NewHandler(os.Stderr, slogx.Config{Level: cfg.LogLevel, Format: "text"}))
	ctx = slogx.WithContext(ctx, logger)

	st, _, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ApplyMigrations(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return fn(ctx, st)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}
