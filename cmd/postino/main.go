package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"postino/internal/adapters/sqlite"
	"postino/internal/adapters/tui"
	"postino/internal/config"
	"postino/internal/mail"
	"postino/internal/ports"
	"postino/internal/resolve"
	"postino/internal/resource"
)

func main() {
	dbFlag := flag.String("db", config.DBPath(), `database path, or "memory" for a seed-only graph`)
	flag.Parse()

	store, closeStore, err := openStore(*dbFlag)
	if err != nil {
		log.Fatalf("postino: %v", err)
	}
	defer closeStore()

	registry := resolve.NewRegistry()
	if err := mail.Register(registry, store); err != nil {
		log.Fatalf("postino: %v", err)
	}
	boundary := resource.NewBoundary(registry, config.PageLimit(), config.PageMax())

	app := tui.NewApp(registry, boundary)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
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
