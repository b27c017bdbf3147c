package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/todolive/core/cmd/todolive/commands"
)

// @title TodoLive API
// @version 1.0
// @description Live-updating todo application with a server-rendered UI

// @contact.name TodoLive
// @contact.url https://github.com/todolive/core

// @license.name MIT
// @license.url https://github.com/todolive/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "todolive",
		Short: "TodoLive server",
		Long:  `TodoLive is a live-updating todo application. The server renders the UI and pushes fresh HTML to connected browsers whenever a user's todos change.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
