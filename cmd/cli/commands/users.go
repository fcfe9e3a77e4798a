package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

func init() {
	userCmd.AddCommand(registerUserCmd)
	userCmd.AddCommand(profileCmd)
	userCmd.AddCommand(listUsersCmd)
	userCmd.AddCommand(deleteUserCmd)

	registerUserCmd.Flags().StringP("name", "n", "", "name of the user to register")
	_ = registerUserCmd.MarkFlagRequired("name")

	listUsersCmd.Flags().IntP("limit", "l", 10, "maximum users to return")
	listUsersCmd.Flags().IntP("offset", "o", 0, "number of users to skip")

	deleteUserCmd.Flags().StringP("id", "i", "", "ID of the user to be deleted")
	_ = deleteUserCmd.MarkFlagRequired("id")
}

var userCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

// GetUsersCmd returns the users command
func GetUsersCmd() *cobra.Command {
	return userCmd
}

var registerUserCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a user",
	Long:  "Register a new user and print the profile including the API key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")

		response, err := apiClient.Register(context.Background(), name)
		if err != nil {
			return fmt.Errorf("error registering user: %w", err)
		}

		return printJSON(response)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the authenticated user's profile",
	RunE: func(_ *cobra.Command, _ []string) error {
		response, err := apiClient.Profile(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching profile: %w", err)
		}

		return printJSON(response)
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Long:  "List registered users with pagination (admin only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		response, err := apiClient.ListUsers(context.Background(), &models.ListOptions{
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("error listing users: %w", err)
		}

		return printJSON(response)
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user",
	Long:  "Delete a user with a given ID (admin only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rawID, _ := cmd.Flags().GetString("id")
		userID, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}

		response, err := apiClient.DeleteUser(context.Background(), userID)
		if err != nil {
			return fmt.Errorf("error while deleting user: %w", err)
		}

		return printJSON(response)
	},
}

// printJSON pretty prints any API response
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}
