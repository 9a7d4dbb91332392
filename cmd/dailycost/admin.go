package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/erazemk/dailycost/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		password, err := initDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		printInitResult(cfg.DBPath, cfg.AdminUsername, password)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		database, err := openDatabase(cmd.Context(), cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		current, latest, err := db.Version(cmd.Context(), database)
		if err != nil {
			return err
		}
		fmt.Printf("Schema version %d (latest %d)\n", current, latest)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an account, reading its password from the terminal or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		password, err := readPassword()
		if err != nil {
			return err
		}

		database, err := openDatabase(cmd.Context(), cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		svc, err := newService(cmd.Context(), cfg, database)
		if err != nil {
			return err
		}

		user, err := svc.CreateUser(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("User %s created (id %d)\n", user.Username, user.ID)
		return nil
	},
}

// readPassword prompts twice on a terminal, or reads one line from piped stdin.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
