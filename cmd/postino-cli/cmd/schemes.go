package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postino/internal/application/commands"
)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List the registered URI schemes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewSchemesCommand(GetRegistry()).Execute(ctx)
		if err != nil {
			return err
		}

		for _, scheme := range result.Schemes {
			line := scheme + "://"
			if sp, err := GetRegistry().Resolve(line); err == nil {
				if keys := sp.Keys(); len(keys) > 0 {
					line += "  " + strings.Join(keys, ", ")
				}
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemesCmd)
}
