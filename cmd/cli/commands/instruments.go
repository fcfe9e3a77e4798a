package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

func init() {
	instrumentCmd.AddCommand(listInstrumentsCmd)
	instrumentCmd.AddCommand(createInstrumentCmd)
	instrumentCmd.AddCommand(deleteInstrumentCmd)

	createInstrumentCmd.Flags().StringP("ticker", "t", "", "ticker of the instrument")
	createInstrumentCmd.Flags().StringP("name", "n", "", "display name of the instrument")
	_ = createInstrumentCmd.MarkFlagRequired("ticker")
	_ = createInstrumentCmd.MarkFlagRequired("name")

	deleteInstrumentCmd.Flags().StringP("ticker", "t", "", "ticker of the instrument to delete")
	_ = deleteInstrumentCmd.MarkFlagRequired("ticker")
}

var instrumentCmd = &cobra.Command{
	Use:   "instruments",
	Short: "Manage instruments",
}

// GetInstrumentsCmd returns the instruments command
func GetInstrumentsCmd() *cobra.Command {
	return instrumentCmd
}

var listInstrumentsCmd = &cobra.Command{
	Use:   "list",
	Short: "List instruments",
	Long:  "List all tradable instruments",
	RunE: func(_ *cobra.Command, _ []string) error {
		response, err := apiClient.ListInstruments(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching instruments: %w", err)
		}

		return printJSON(response)
	},
}

var createInstrumentCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an instrument",
	Long:  "Add a tradable instrument (admin only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ticker, _ := cmd.Flags().GetString("ticker")
		name, _ := cmd.Flags().GetString("name")

		instrument := models.Instrument{Ticker: ticker, Name: name}
		if err := apiClient.CreateInstrument(context.Background(), instrument); err != nil {
			return fmt.Errorf("error creating instrument: %w", err)
		}

		fmt.Printf("Instrument %s created\n", ticker)
		return nil
	},
}

var deleteInstrumentCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an instrument",
	Long:  "Remove an instrument (admin only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ticker, _ := cmd.Flags().GetString("ticker")

		if err := apiClient.DeleteInstrument(context.Background(), ticker); err != nil {
			return fmt.Errorf("error deleting instrument: %w", err)
		}

		fmt.Printf("Instrument %s deleted\n", ticker)
		return nil
	},
}
