package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pulsefeed/backend/internal/auth"
	"github.com/pulsefeed/backend/internal/database"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/seed"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pulsefeed",
	Short: "Pulsefeed CLI - database and development tooling",
	Long: `Pulsefeed CLI provides operational commands for the feed backend:
migrations, seeding, and dev token minting.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "Warning: .env file not found, using system environment variables")
		}
		if err := logger.Initialize(os.Getenv("LOG_LEVEL"), ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		if err := database.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to connect to database: %v\n", err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = database.Close()
		_ = logger.Close()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with development data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(); err != nil {
			return err
		}

		seeder := seed.NewSeeder(database.DB)
		if testData, _ := cmd.Flags().GetBool("test"); testData {
			return seeder.SeedTest()
		}
		return seeder.SeedDev()
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Mint a dev JWT for a seeded profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := []byte(os.Getenv("JWT_SECRET"))
		if len(secret) == 0 {
			return fmt.Errorf("JWT_SECRET environment variable is required")
		}

		var profile models.Profile
		if err := database.DB.First(&profile, "username = ?", args[0]).Error; err != nil {
			return fmt.Errorf("profile %q not found: %w", args[0], err)
		}

		provider := auth.NewJWTProvider(secret, database.DB)
		token, err := provider.MintToken(&profile)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("test", false, "Seed the minimal fixed test cast instead of dev data")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
