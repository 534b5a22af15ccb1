// Command create-admin bootstraps a SYSTEM_ADMIN account. The API only lets an
// existing admin create another one, so the first admin is created here.
//
// The password is read from the environment variable named by -password-env
// so it does not end up in shell history:
//
//	RATINGS_ADMIN_PASSWORD='S3cret!pass' create-admin -name "Platform Administrator" -email admin@example.com
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/store-rating-api/internal/config"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/platform/postgres"
	"github.com/phrazzld/store-rating-api/internal/redact"
	"github.com/phrazzld/store-rating-api/internal/service"
	"github.com/phrazzld/store-rating-api/internal/service/auth"
	"github.com/phrazzld/store-rating-api/internal/store"
)

const defaultPasswordEnv = "RATINGS_ADMIN_PASSWORD"

type options struct {
	Name        string
	Email       string
	Address     string
	PasswordEnv string
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.Name, "name", "", "admin display name (20-60 characters)")
	fs.StringVar(&opts.Email, "email", "", "admin email address")
	fs.StringVar(&opts.Address, "address", "", "admin address")
	fs.StringVar(&opts.PasswordEnv, "password-env", defaultPasswordEnv, "environment variable holding the password")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var missing []string
	if strings.TrimSpace(opts.Name) == "" {
		missing = append(missing, "-name")
	}
	if strings.TrimSpace(opts.Email) == "" {
		missing = append(missing, "-email")
	}
	if len(missing) > 0 {
		return options{}, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return opts, nil
}

// createAdmin creates the account through the regular user service so the
// name, email and password rules match the API.
func createAdmin(ctx context.Context, users service.UserService, opts options, password string) (*domain.User, error) {
	if password == "" {
		return nil, fmt.Errorf("password is empty: set %s", opts.PasswordEnv)
	}

	user, err := users.CreateUser(ctx, service.CreateUserInput{
		Name:     opts.Name,
		Email:    opts.Email,
		Address:  opts.Address,
		Password: password,
		Role:     domain.RoleSystemAdmin,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, fmt.Errorf("an account with email %s already exists", opts.Email)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, nil
}

func run(ctx context.Context, args []string) error {
	opts, err := parseOptions(args, os.Stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	users := service.NewUserService(
		store.NewSQLTransactor(db),
		userStore,
		postgres.NewPostgresStoreStore(db, log),
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		log,
	)

	user, err := createAdmin(ctx, users, opts, os.Getenv(opts.PasswordEnv))
	if err != nil {
		return err
	}

	log.Info("admin account created",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email))
	fmt.Printf("Created SYSTEM_ADMIN %s (%s)\n", user.Email, user.ID)
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "create-admin: %s\n", redact.Error(err))
		os.Exit(1)
	}
}
