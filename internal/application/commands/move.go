package commands

import (
	"context"
	"fmt"

	"postino/internal/application"
	"postino/internal/resolve"
)

// MoveResult contains the result of relocating a resource
type MoveResult struct {
	SourceURI string
	NewURI    string
	Message   string
}

// MoveCommand relocates a collection item to another collection
type MoveCommand struct {
	registry       *resolve.Registry
	SourceURI      string
	DestinationURI string
}

// NewMoveCommand creates a new MoveCommand
func NewMoveCommand(registry *resolve.Registry, sourceURI, destinationURI string) *MoveCommand {
	return &MoveCommand{
		registry:       registry,
		SourceURI:      sourceURI,
		DestinationURI: destinationURI,
	}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
	if err := application.ValidateURI("source", c.SourceURI); err != nil {
		return err
	}
	return application.ValidateURI("destination", c.DestinationURI)
}

// Execute runs the move command
func (c *MoveCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	src, err := c.registry.Resolve(c.SourceURI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source: %w", err)
	}
	dst, err := c.registry.Resolve(c.DestinationURI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination: %w", err)
	}

	moved, err := src.Move(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to move resource: %w", err)
	}

	return &MoveResult{
		SourceURI: src.URI(),
		NewURI:    moved.URI(),
		Message:   fmt.Sprintf("Moved to %s", moved.URI()),
	}, nil
}
