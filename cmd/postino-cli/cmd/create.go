package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"postino/internal/application"
	"postino/internal/application/commands"
)

var createCmd = &cobra.Command{
	Use:   "create <collection-uri> <json>",
	Short: "Create a new item in a collection",
	Long: `Create a new item in the collection at a URI from a JSON object.

An id is minted when the object does not carry one. The new item's
canonical URI is printed on success.

Examples:
  postino-cli create 'mail://signatures' '{"name": "Brief", "content": "-- A"}'
  postino-cli create 'mail://inboxes/inbox-work/messages' '{"subject": "Hi", "from": "b@example.com"}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		properties, err := application.ParseProperties("properties", args[1])
		if err != nil {
			return err
		}
		createCmd := commands.NewCreateCommand(GetRegistry(), args[0], properties)
		result, err := createCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
