package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/dailycost/internal/config"
	"github.com/erazemk/dailycost/internal/db"
	"github.com/erazemk/dailycost/internal/service"
	"github.com/erazemk/dailycost/internal/store"
)

var (
	configPath string
	envPath    string
	dbPath     string
	addr       string
	logLevel   string
	logPath    string
	adminUser  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "dailycost",
	Short:        "Track what the things you own cost per day",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "TOML config file")
	pf.StringVar(&envPath, "env-file", ".env", "dotenv file with DAILYCOST_* variables")
	pf.StringVarP(&dbPath, "db", "d", "", "SQLite database path (default: dailycost.db)")
	pf.StringVarP(&addr, "addr", "a", "", "listen address (default: :8080)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default: info)")
	pf.StringVarP(&logPath, "log", "l", "", "also append logs to this file")
	pf.StringVarP(&adminUser, "user", "u", "", "admin username on first run (default: admin)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(migrateCmd)
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

// loadConfig layers command-line flags over the file and environment config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("addr") {
		cfg.Addr = addr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log") {
		cfg.LogPath = logPath
	}
	if flags.Changed("user") {
		cfg.AdminUsername = adminUser
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDatabase opens and migrates the database.
func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// newService wires a Service over database using cfg.
func newService(ctx context.Context, cfg *config.Config, database *sql.DB) (*service.Service, error) {
	st := store.New(database, nil)

	secret := cfg.JWTSecret
	if secret == "" {
		var err error
		if secret, err = st.GetJWTSecret(ctx); err != nil {
			return nil, err
		}
	}

	return service.New(st, secret, service.Options{TokenTTL: cfg.TokenTTL}), nil
}

// initDatabase creates a new database, applies migrations and creates the
// admin user. It returns the generated admin password.
func initDatabase(ctx context.Context, cfg *config.Config) (string, error) {
	if _, err := os.Stat(cfg.DBPath); err == nil {
		return "", fmt.Errorf("database %s already exists", cfg.DBPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	password, err := func() (string, error) {
		database, err := openDatabase(ctx, cfg.DBPath)
		if err != nil {
			return "", err
		}
		defer database.Close()

		svc, err := newService(ctx, cfg, database)
		if err != nil {
			return "", err
		}

		password, err := generatePassword(16)
		if err != nil {
			return "", fmt.Errorf("generating password: %w", err)
		}
		if _, err := svc.CreateUser(ctx, cfg.AdminUsername, password); err != nil {
			return "", fmt.Errorf("creating admin user: %w", err)
		}
		return password, nil
	}()
	if err != nil {
		os.Remove(cfg.DBPath)
		return "", err
	}
	return password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("It can be changed after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
