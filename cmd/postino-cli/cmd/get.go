package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"postino/internal/application/commands"
)

var getCmd = &cobra.Command{
	Use:   "get <uri>",
	Short: "Read the resource at a URI",
	Long: `Read the resource at a URI and print it as JSON.

Collections larger than the default page come back wrapped in a pagination
envelope; follow _pagination.next to walk the rest.

Examples:
  postino-cli get 'mail://accounts'
  postino-cli get 'mail://accounts/Work/inbox'
  postino-cli get 'mail://inboxes/inbox-work/messages?sort=dateSent.desc&limit=5'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewReadCommand(GetBoundary(), args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		payload, err := json.MarshalIndent(result.Resource.Value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists <uri>",
	Short: "Check whether a value is present at a URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewExistsCommand(GetBoundary(), args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(existsCmd)
}
