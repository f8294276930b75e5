package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"postino/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <uri>",
	Short: "Delete the resource at a URI",
	Long: `Delete the collection item at a URI.

Examples:
  postino-cli delete 'mail://inboxes/inbox-work/messages/msg-3'
  postino-cli delete 'mail://signatures/Brief'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		deleteCmd := commands.NewDeleteCommand(GetRegistry(), args[0])
		result, err := deleteCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
