package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"postino/internal/application/commands"
)

var moveCmd = &cobra.Command{
	Use:   "move <source-uri> <destination-uri>",
	Short: "Move an item to another collection",
	Long: `Move a collection item to the destination collection.

The item keeps its identity; its address changes. The new canonical URI is
printed on success.

Examples:
  postino-cli move 'mail://inboxes/inbox-work/messages/msg-1' 'mail://inboxes/inbox-personal/messages'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		moveCmd := commands.NewMoveCommand(GetRegistry(), args[0], args[1])
		result, err := moveCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
