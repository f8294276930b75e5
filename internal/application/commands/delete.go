package commands

import (
	"context"
	"fmt"

	"postino/internal/application"
	"postino/internal/resolve"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedURI string
	Message    string
}

// DeleteCommand removes the resource behind an address
type DeleteCommand struct {
	registry *resolve.Registry
	URI      string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(registry *resolve.Registry, uri string) *DeleteCommand {
	return &DeleteCommand{registry: registry, URI: uri}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	return application.ValidateURI("uri", c.URI)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sp, err := c.registry.Resolve(c.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	removed, err := sp.Delete()
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", sp.URI(), err)
	}

	return &DeleteResult{
		DeletedURI: removed,
		Message:    fmt.Sprintf("Deleted %s", removed),
	}, nil
}
