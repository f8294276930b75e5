package commands

import (
	"context"
	"fmt"
	"strings"

	"postino/internal/resolve"
)

// SchemesResult contains the registered scheme names
type SchemesResult struct {
	Schemes []string
	Message string
}

// SchemesCommand lists the URI schemes the registry serves
type SchemesCommand struct {
	registry *resolve.Registry
}

// NewSchemesCommand creates a new SchemesCommand
func NewSchemesCommand(registry *resolve.Registry) *SchemesCommand {
	return &SchemesCommand{registry: registry}
}

// Execute runs the schemes command
func (c *SchemesCommand) Execute(ctx context.Context) (*SchemesResult, error) {
	schemes := c.registry.Schemes()
	msg := "No schemes registered"
	if len(schemes) > 0 {
		msg = fmt.Sprintf("Serving %s", strings.Join(schemes, ", "))
	}
	return &SchemesResult{Schemes: schemes, Message: msg}, nil
}
