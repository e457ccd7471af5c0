package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host     string
	apiToken string
)

var rootCmd = &cobra.Command{
	Use:   "cardswap-cli",
	Short: "A CLI to interact with the card-swap server",
	Long: `A command-line interface for making requests to the various endpoints
of the card-swap application and for loading card reference data.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", "", "Token for the /api endpoints (default $API_TOKEN)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
