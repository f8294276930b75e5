package commands

import (
	"context"
	"fmt"

	"postino/internal/application"
	"postino/internal/resolve"
)

// CreateResult contains the result of creating a resource
type CreateResult struct {
	CreatedURI string
	Message    string
}

// CreateCommand inserts a new item into the collection behind an address
type CreateCommand struct {
	registry   *resolve.Registry
	URI        string
	Properties map[string]any
}

// NewCreateCommand creates a new CreateCommand
func NewCreateCommand(registry *resolve.Registry, uri string, properties map[string]any) *CreateCommand {
	return &CreateCommand{
		registry:   registry,
		URI:        uri,
		Properties: properties,
	}
}

// Validate checks if the create operation is valid
func (c *CreateCommand) Validate() error {
	if err := application.ValidateURI("uri", c.URI); err != nil {
		return err
	}
	if len(c.Properties) == 0 {
		return &application.ValidationError{
			Field:   "properties",
			Message: "properties are required",
		}
	}
	return nil
}

// Execute runs the create command
func (c *CreateCommand) Execute(ctx context.Context) (*CreateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sp, err := c.registry.Resolve(c.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve collection: %w", err)
	}
	created, err := sp.Create(c.Properties)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return &CreateResult{
		CreatedURI: created.URI(),
		Message:    fmt.Sprintf("Created %s", created.URI()),
	}, nil
}
