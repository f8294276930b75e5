package commands

import (
	"context"
	"fmt"

	"postino/internal/application"
	"postino/internal/resolve"
)

// SetResult contains the result of assigning a value
type SetResult struct {
	URI     string
	Value   any
	Message string
}

// SetCommand assigns a value at a resource address
type SetCommand struct {
	registry *resolve.Registry
	URI      string
	Value    any
}

// NewSetCommand creates a new SetCommand
func NewSetCommand(registry *resolve.Registry, uri string, value any) *SetCommand {
	return &SetCommand{registry: registry, URI: uri, Value: value}
}

// Validate checks if the set operation is valid
func (c *SetCommand) Validate() error {
	return application.ValidateURI("uri", c.URI)
}

// Execute runs the set command
func (c *SetCommand) Execute(ctx context.Context) (*SetResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sp, err := c.registry.Resolve(c.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	if err := sp.Set(c.Value); err != nil {
		return nil, fmt.Errorf("failed to set value: %w", err)
	}

	return &SetResult{
		URI:     sp.URI(),
		Value:   c.Value,
		Message: fmt.Sprintf("Set %s", sp.URI()),
	}, nil
}
