// Package commands contains the CLI commands for the exchange API
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CatDevelop/exchange-tochka/pkg/api/v1/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagAPIKey        = "api-key"
)

// environment variable names
const (
	envServerAddress = "EXCHANGE_SERVER_ADDRESS"
	envAPIKey        = "EXCHANGE_API_KEY"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// apiKey authenticates requests against the API
	apiKey string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.APIKey = apiKey

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", client.DefaultBaseURL, "Address of the exchange API server (env: EXCHANGE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVarP(&apiKey, flagAPIKey, "k", "", "API key for authenticated endpoints (env: EXCHANGE_API_KEY)")

	RootCmd.AddCommand(GetUsersCmd())
	RootCmd.AddCommand(GetInstrumentsCmd())
	RootCmd.AddCommand(GetOrdersCmd())
	RootCmd.AddCommand(GetBalanceCmd())
	RootCmd.AddCommand(GetMarketCmd())
	RootCmd.AddCommand(GetHealthCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Exchange CLI - A command line interface for the exchange API",
	Long: `Exchange CLI is a command line tool for managing users, instruments,
orders and balances through the exchange API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env var > default precedence for the server address.
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagAPIKey) {
			if envKey := os.Getenv(envAPIKey); envKey != "" {
				apiKey = envKey
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}
