package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postino/internal/adapters/sqlite"
	"postino/internal/config"
	"postino/internal/mail"
	"postino/internal/ports"
	"postino/internal/resolve"
	"postino/internal/resource"
)

var (
	dbPath     string
	registry   *resolve.Registry
	boundary   *resource.Boundary
	closeStore func() error
)

var rootCmd = &cobra.Command{
	Use:   "postino-cli",
	Short: "CLI for browsing and mutating URI-addressed resource trees",
	Long: `postino-cli reads and writes the object graph behind a resource URI.

Addresses take the form scheme://segment/segment, where a segment may carry
an [index] qualifier, a trailing name or id, or query parameters:

  postino-cli get 'mail://accounts/Work'
  postino-cli get 'mail://inboxes/inbox-work/messages?read=false&sort=dateSent.desc&limit=5'
  postino-cli set 'mail://inboxes/inbox-work/messages/msg-1/read' true`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		store, closer, err := openStore(dbPath)
		if err != nil {
			return err
		}
		closeStore = closer
		registry = resolve.NewRegistry()
		if err := mail.Register(registry, store); err != nil {
			closer()
			return err
		}
		boundary = resource.NewBoundary(registry, config.PageLimit(), config.PageMax())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeStore != nil {
			return closeStore()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", config.DBPath(), `database path, or "memory" for a seed-only graph`)
}

// openStore picks the backing graph: the in-memory seed, or the same graph
// persisted at path.
func openStore(path string) (ports.Store, func() error, error) {
	if path == "" || path == "memory" {
		return mail.NewStore(), func() error { return nil }, nil
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, err
	}
	backing, err := db.Backing(mail.Scheme, mail.Seed())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return backing, db.Close, nil
}

// GetRegistry returns the initialized scheme registry
func GetRegistry() *resolve.Registry {
	return registry
}

// GetBoundary returns the initialized read boundary
func GetBoundary() *resource.Boundary {
	return boundary
}
