package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/handlers"
	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

func init() {
	orderCmd.AddCommand(createOrderCmd)
	orderCmd.AddCommand(listOrdersCmd)
	orderCmd.AddCommand(getOrderCmd)
	orderCmd.AddCommand(cancelOrderCmd)

	createOrderCmd.Flags().StringP("direction", "d", "", "order direction: BUY or SELL")
	createOrderCmd.Flags().StringP("ticker", "t", "", "instrument ticker")
	createOrderCmd.Flags().Int64P("qty", "q", 0, "order quantity")
	createOrderCmd.Flags().Int64P("price", "p", 0, "limit price; omit for a market order")
	_ = createOrderCmd.MarkFlagRequired("direction")
	_ = createOrderCmd.MarkFlagRequired("ticker")
	_ = createOrderCmd.MarkFlagRequired("qty")

	getOrderCmd.Flags().StringP("id", "i", "", "order ID")
	_ = getOrderCmd.MarkFlagRequired("id")

	cancelOrderCmd.Flags().StringP("id", "i", "", "order ID")
	_ = cancelOrderCmd.MarkFlagRequired("id")
}

var orderCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage orders",
}

// GetOrdersCmd returns the orders command
func GetOrdersCmd() *cobra.Command {
	return orderCmd
}

var createOrderCmd = &cobra.Command{
	Use:   "create",
	Short: "Place an order",
	Long:  "Place a limit order when a price is given, otherwise a market order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		direction, _ := cmd.Flags().GetString("direction")
		ticker, _ := cmd.Flags().GetString("ticker")
		qty, _ := cmd.Flags().GetInt64("qty")

		req := handlers.CreateOrderRequest{
			Direction: models.OrderDirection(direction),
			Ticker:    ticker,
			Qty:       qty,
		}
		if cmd.Flags().Changed("price") {
			price, _ := cmd.Flags().GetInt64("price")
			req.Price = &price
		}

		response, err := apiClient.CreateOrder(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error creating order: %w", err)
		}

		return printJSON(response)
	},
}

var listOrdersCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	RunE: func(_ *cobra.Command, _ []string) error {
		response, err := apiClient.ListOrders(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching orders: %w", err)
		}

		return printJSON(response)
	},
}

var getOrderCmd = &cobra.Command{
	Use:   "get",
	Short: "Show one order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rawID, _ := cmd.Flags().GetString("id")
		orderID, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("invalid order ID: %w", err)
		}

		response, err := apiClient.GetOrder(context.Background(), orderID)
		if err != nil {
			return fmt.Errorf("error fetching order: %w", err)
		}

		return printJSON(response)
	},
}

var cancelOrderCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel an open order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rawID, _ := cmd.Flags().GetString("id")
		orderID, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("invalid order ID: %w", err)
		}

		if err := apiClient.CancelOrder(context.Background(), orderID); err != nil {
			return fmt.Errorf("error cancelling order: %w", err)
		}

		fmt.Printf("Order %s cancelled\n", orderID)
		return nil
	},
}
