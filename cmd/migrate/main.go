package main

import (
	"fmt"
	"log"
	"os"
	"time"

	_ "embed"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

//go:embed schema.sql
var schemaSQL string

func connect() (*sqlx.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return sqlx.Connect("postgres", dbURL)
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.Exec(schemaSQL); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			log.Println("schema applied")
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var name, email, phone, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin user (idempotent by email)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			now := time.Now()
			_, err = db.Exec(`
				INSERT INTO users (id, name, email, phone, password, role, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, 'admin', TRUE, $6, $6)
				ON CONFLICT (email) DO UPDATE SET
					password   = EXCLUDED.password,
					role       = 'admin',
					is_active  = TRUE,
					updated_at = EXCLUDED.updated_at
			`, uuid.NewString(), name, email, phone, string(hash), now)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			log.Printf("admin %s ready", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Admin", "admin display name")
	cmd.Flags().StringVar(&email, "email", "admin@example.com", "admin email")
	cmd.Flags().StringVar(&phone, "phone", "0000000000", "admin phone")
	cmd.Flags().StringVar(&password, "password", "", "admin password (required)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "estate-backend schema and seed tool",
	}
	rootCmd.AddCommand(upCmd(), seedAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
