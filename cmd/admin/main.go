// Package main is the ERIO operations CLI. It runs database migrations and
// seeds admin accounts, keeping plaintext passwords out of the server binary
// and out of the database.
//
// Usage:
//
//	erio-admin migrate
//	erio-admin create-admin -email io@uic.edu.ph -name "IO Staff" -password secret [-role editor]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/erio-hub/erio-dashboard/config"
	"github.com/erio-hub/erio-dashboard/internal/domain/admin"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/auth"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/persistence/postgres"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("a command is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	switch args[0] {
	case "migrate":
		return runMigrate(ctx, conn)
	case "create-admin":
		return runCreateAdmin(ctx, conn, cfg, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: erio-admin <migrate|create-admin> [flags]")
}

// runMigrate applies pending schema migrations and prints the ledger.
func runMigrate(ctx context.Context, conn *postgres.Connection) error {
	migrator := postgres.NewMigrator(conn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	for _, m := range status {
		state := "pending"
		if m.IsApplied {
			state = "applied"
		}
		fmt.Printf("%3d  %-40s %s\n", m.Version, m.Name, state)
	}
	return nil
}

// runCreateAdmin hashes the password and stores a new admin account.
func runCreateAdmin(ctx context.Context, conn *postgres.Connection, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email address (required)")
	name := fs.String("name", "", "display name (required)")
	password := fs.String("password", "", "password (prompted when omitted)")
	role := fs.String("role", "admin", "account role: admin or editor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *name == "" {
		fs.Usage()
		return errors.New("-email and -name are required")
	}

	accountRole := admin.Role(*role)
	if !accountRole.IsValid() {
		return fmt.Errorf("invalid role %q, want admin or editor", *role)
	}

	plaintext := *password
	if plaintext == "" {
		var err error
		plaintext, err = promptPassword()
		if err != nil {
			return err
		}
	}
	if len(plaintext) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := auth.NewBcryptVerifier().Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := admin.New(*email, *name, hash)
	if err != nil {
		return fmt.Errorf("invalid admin account: %w", err)
	}
	user.Role = accountRole

	repo := postgres.NewAdminRepository(conn)
	if err := repo.Create(ctx, user); err != nil {
		if shared.IsAlreadyExists(err) {
			return fmt.Errorf("an admin with email %s already exists", user.Email)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("created %s account %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

// promptPassword reads the password from the terminal without echoing it.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "confirm:  ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(pw) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	return string(pw), nil
}
