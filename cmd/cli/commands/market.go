package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	marketCmd.AddCommand(orderbookCmd)
	marketCmd.AddCommand(transactionsCmd)

	for _, cmd := range []*cobra.Command{orderbookCmd, transactionsCmd} {
		cmd.Flags().StringP("ticker", "t", "", "instrument ticker")
		cmd.Flags().IntP("limit", "l", 10, "maximum entries to return")
		_ = cmd.MarkFlagRequired("ticker")
	}
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Public market data",
}

// GetMarketCmd returns the market data command
func GetMarketCmd() *cobra.Command {
	return marketCmd
}

var orderbookCmd = &cobra.Command{
	Use:   "orderbook",
	Short: "Show the aggregated order book of a ticker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ticker, _ := cmd.Flags().GetString("ticker")
		limit, _ := cmd.Flags().GetInt("limit")

		response, err := apiClient.GetOrderbook(context.Background(), ticker, limit)
		if err != nil {
			return fmt.Errorf("error fetching orderbook: %w", err)
		}

		return printJSON(response)
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Show the recent trades of a ticker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ticker, _ := cmd.Flags().GetString("ticker")
		limit, _ := cmd.Flags().GetInt("limit")

		response, err := apiClient.GetTransactions(context.Background(), ticker, limit)
		if err != nil {
			return fmt.Errorf("error fetching transactions: %w", err)
		}

		return printJSON(response)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check API server health",
	RunE: func(_ *cobra.Command, _ []string) error {
		response, err := apiClient.HealthCheck(context.Background())
		if err != nil {
			return fmt.Errorf("error checking health: %w", err)
		}

		return printJSON(response)
	},
}

// GetHealthCmd returns the health command
func GetHealthCmd() *cobra.Command {
	return healthCmd
}
