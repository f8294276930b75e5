package commands

import (
	"context"
	"fmt"

	"postino/internal/application"
	"postino/internal/resource"
)

// ReadResult contains the result of reading a resource
type ReadResult struct {
	Resource application.Result
	Message  string
}

// ReadCommand materializes the value behind a resource address
type ReadCommand struct {
	boundary *resource.Boundary
	URI      string
}

// NewReadCommand creates a new ReadCommand
func NewReadCommand(boundary *resource.Boundary, uri string) *ReadCommand {
	return &ReadCommand{boundary: boundary, URI: uri}
}

// Validate checks if the read operation is valid
func (c *ReadCommand) Validate() error {
	return application.ValidateURI("uri", c.URI)
}

// Execute runs the read command
func (c *ReadCommand) Execute(ctx context.Context) (*ReadResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := c.boundary.Read(c.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource: %w", err)
	}

	return &ReadResult{
		Resource: res,
		Message:  fmt.Sprintf("Read %s", res.URI),
	}, nil
}

// ExistsResult contains the result of an existence probe
type ExistsResult struct {
	URI     string
	Exists  bool
	Message string
}

// ExistsCommand reports whether a value is present behind an address
type ExistsCommand struct {
	boundary *resource.Boundary
	URI      string
}

// NewExistsCommand creates a new ExistsCommand
func NewExistsCommand(boundary *resource.Boundary, uri string) *ExistsCommand {
	return &ExistsCommand{boundary: boundary, URI: uri}
}

// Validate checks if the probe is valid
func (c *ExistsCommand) Validate() error {
	return application.ValidateURI("uri", c.URI)
}

// Execute runs the exists command
func (c *ExistsCommand) Execute(ctx context.Context) (*ExistsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ok, err := c.boundary.Exists(c.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to probe resource: %w", err)
	}

	msg := fmt.Sprintf("%s exists", c.URI)
	if !ok {
		msg = fmt.Sprintf("%s does not exist", c.URI)
	}
	return &ExistsResult{URI: c.URI, Exists: ok, Message: msg}, nil
}
