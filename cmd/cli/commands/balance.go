package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/handlers"
)

func init() {
	balanceCmd.AddCommand(getBalancesCmd)
	balanceCmd.AddCommand(depositCmd)
	balanceCmd.AddCommand(withdrawCmd)

	for _, cmd := range []*cobra.Command{depositCmd, withdrawCmd} {
		cmd.Flags().StringP("user-id", "u", "", "ID of the user")
		cmd.Flags().StringP("ticker", "t", "", "ticker to move")
		cmd.Flags().Int64P("amount", "a", 0, "amount to move")
		_ = cmd.MarkFlagRequired("user-id")
		_ = cmd.MarkFlagRequired("ticker")
		_ = cmd.MarkFlagRequired("amount")
	}
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Manage balances",
}

// GetBalanceCmd returns the balance command
func GetBalanceCmd() *cobra.Command {
	return balanceCmd
}

var getBalancesCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your available balances",
	RunE: func(_ *cobra.Command, _ []string) error {
		response, err := apiClient.GetBalances(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching balances: %w", err)
		}

		return printJSON(response)
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit into a user's balance",
	Long:  "Credit a user's balance (admin only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := balanceRequest(cmd)
		if err != nil {
			return err
		}

		if err := apiClient.Deposit(context.Background(), handlers.DepositRequest(req)); err != nil {
			return fmt.Errorf("error depositing: %w", err)
		}

		fmt.Println("Deposit applied")
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw from a user's balance",
	Long:  "Debit a user's available balance (admin only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := balanceRequest(cmd)
		if err != nil {
			return err
		}

		if err := apiClient.Withdraw(context.Background(), handlers.WithdrawRequest(req)); err != nil {
			return fmt.Errorf("error withdrawing: %w", err)
		}

		fmt.Println("Withdrawal applied")
		return nil
	},
}

// balanceRequest reads the shared deposit/withdraw flags
func balanceRequest(cmd *cobra.Command) (handlers.DepositRequest, error) {
	rawID, _ := cmd.Flags().GetString("user-id")
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return handlers.DepositRequest{}, fmt.Errorf("invalid user ID: %w", err)
	}

	ticker, _ := cmd.Flags().GetString("ticker")
	amount, _ := cmd.Flags().GetInt64("amount")

	return handlers.DepositRequest{UserID: userID, Ticker: ticker, Amount: amount}, nil
}
