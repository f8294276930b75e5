package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"postino/internal/application"
	"postino/internal/application/commands"
)

var setCmd = &cobra.Command{
	Use:   "set <uri> <value>",
	Short: "Assign a value at a URI",
	Long: `Assign a value to the settable property at a URI.

The value is decoded as JSON, so booleans and numbers keep their types;
anything that is not valid JSON is taken as a plain string.

Examples:
  postino-cli set 'mail://inboxes/inbox-work/messages/msg-1/read' true
  postino-cli set 'mail://accounts/Work/fullName' "Ada Lovelace"
  postino-cli set 'mail://settings/fetchInterval' 15`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		setCmd := commands.NewSetCommand(GetRegistry(), args[0], application.ParseValue(args[1]))
		result, err := setCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
