package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(offersCmd)
	rootCmd.AddCommand(searchesCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health")
	},
}

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List every card currently on offer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/cards")
	},
}

var setsCmd = &cobra.Command{
	Use:   "sets [set-code]",
	Short: "List the imported card sets, or the cards of one set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, "/api/sets/"+url.PathEscape(args[0])+"/cards")
		}
		return performRequest(http.MethodGet, "/api/sets")
	},
}

var userCmd = &cobra.Command{
	Use:   "user <user-id>",
	Short: "Show what the server knows about a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/users/"+url.PathEscape(args[0]))
	},
}

var offersCmd = &cobra.Command{
	Use:   "offers <user-id>",
	Short: "List a user's offers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/users/"+url.PathEscape(args[0])+"/offers")
	},
}

var searchesCmd = &cobra.Command{
	Use:   "searches <user-id>",
	Short: "List a user's searches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/users/"+url.PathEscape(args[0])+"/searches")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches <user-id>",
	Short: "List the trades available to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/users/"+url.PathEscape(args[0])+"/matches")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics")
	},
}

func performRequest(method, endpoint string) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if strings.HasPrefix(endpoint, "/api/") {
		if token := orEnv(apiToken, "API_TOKEN", ""); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
