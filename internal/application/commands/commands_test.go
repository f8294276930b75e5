package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"postino/internal/application"
	"postino/internal/mail"
	"postino/internal/resolve"
	"postino/internal/resource"
)

func testRegistry(t *testing.T) *resolve.Registry {
	t.Helper()
	r := resolve.NewRegistry()
	if err := mail.Register(r, mail.NewStore()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return r
}

func testBoundary(t *testing.T) (*resolve.Registry, *resource.Boundary) {
	t.Helper()
	r := testRegistry(t)
	return r, resource.NewBoundary(r, 0, 0)
}

func TestReadCommand_Validate(t *testing.T) {
	_, b := testBoundary(t)
	tests := []struct {
		name    string
		uri     string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid address",
			uri:     "mail://accounts/Work",
			wantErr: false,
		},
		{
			name:    "empty address",
			uri:     "",
			wantErr: true,
			errMsg:  "uri is required",
		},
		{
			name:    "malformed address",
			uri:     "accounts/Work",
			wantErr: true,
			errMsg:  "missing scheme separator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewReadCommand(b, tt.uri).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected %q in error, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestReadCommand_Execute(t *testing.T) {
	_, b := testBoundary(t)
	got, err := NewReadCommand(b, "mail://version").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got.Resource.URI != "mail://version" || got.Resource.Value != "1.4.2" {
		t.Errorf("got %+v", got.Resource)
	}
	if got.Message != "Read mail://version" {
		t.Errorf("got %q", got.Message)
	}

	if _, err := NewReadCommand(b, "mail://nowhere").Execute(context.Background()); err == nil {
		t.Error("unknown addresses must fail")
	}
}

func TestExistsCommand_Execute(t *testing.T) {
	_, b := testBoundary(t)
	got, err := NewExistsCommand(b, "mail://accounts/Work").Execute(context.Background())
	if err != nil || !got.Exists {
		t.Fatalf("got %+v, %v", got, err)
	}
	got, err = NewExistsCommand(b, "mail://accounts[9]").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got.Exists || !strings.Contains(got.Message, "does not exist") {
		t.Errorf("got %+v", got)
	}
}

func TestSetCommand_Execute(t *testing.T) {
	r := testRegistry(t)
	got, err := NewSetCommand(r, "mail://inboxes/inbox-work/messages/msg-1/read", true).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got.URI != "mail://inboxes/inbox-work/messages/msg-1/read" {
		t.Errorf("got %q", got.URI)
	}

	sp, err := r.Resolve(got.URI)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v, err := sp.Resolve(); err != nil || v != true {
		t.Errorf("got %v, %v", v, err)
	}
}

func TestSetCommand_RejectionsSurface(t *testing.T) {
	r := testRegistry(t)
	if _, err := NewSetCommand(r, "mail://version", "2.0").Execute(context.Background()); err == nil ||
		!strings.Contains(err.Error(), "set") {
		t.Errorf("read-only targets must fail, got %v", err)
	}
	if _, err := NewSetCommand(r, "mail://settings/format", "fancy").Execute(context.Background()); err == nil ||
		!strings.Contains(err.Error(), "one of plain|rich") {
		t.Errorf("validator failures must surface, got %v", err)
	}
}

func TestMoveCommand_Validate(t *testing.T) {
	r := testRegistry(t)
	tests := []struct {
		name   string
		src    string
		dst    string
		errMsg string
	}{
		{
			name:   "empty source",
			src:    "",
			dst:    "mail://signatures",
			errMsg: "source is required",
		},
		{
			name:   "empty destination",
			src:    "mail://signatures/Short",
			dst:    "",
			errMsg: "destination is required",
		},
		{
			name:   "malformed destination",
			src:    "mail://signatures/Short",
			dst:    "mail://sig[natures",
			errMsg: "destination",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMoveCommand(r, tt.src, tt.dst).Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("got %v, want %q", err, tt.errMsg)
			}
			var ve *application.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected a ValidationError, got %T", err)
			}
		})
	}
}

func TestMoveCommand_Execute(t *testing.T) {
	r := testRegistry(t)
	got, err := NewMoveCommand(r,
		"mail://inboxes/inbox-work/messages/msg-3",
		"mail://accounts/Work/mailboxes/Archive/messages",
	).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got.NewURI != "mail://accounts/Work/mailboxes/Archive/messages/msg-3" {
		t.Errorf("got %q", got.NewURI)
	}
	if !strings.Contains(got.Message, "Moved to") {
		t.Errorf("got %q", got.Message)
	}
}

func TestDeleteCommand_Execute(t *testing.T) {
	r := testRegistry(t)
	got, err := NewDeleteCommand(r, "mail://signatures/Short").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got.DeletedURI != "mail://signatures/Short" {
		t.Errorf("got %q", got.DeletedURI)
	}
	if _, err := NewDeleteCommand(r, "mail://version").Execute(context.Background()); err == nil {
		t.Error("undeletable targets must fail")
	}
}

func TestCreateCommand_Execute(t *testing.T) {
	r := testRegistry(t)
	cmd := NewCreateCommand(r, "mail://signatures", map[string]any{
		"id": "sig-new", "name": "New", "content": "N.",
	})
	got, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got.CreatedURI != "mail://signatures/sig-new" {
		t.Errorf("got %q", got.CreatedURI)
	}

	var ve *application.ValidationError
	if _, err := NewCreateCommand(r, "mail://signatures", nil).Execute(context.Background()); !errors.As(err, &ve) {
		t.Errorf("missing properties must fail validation, got %v", err)
	}
}

func TestSchemesCommand_Execute(t *testing.T) {
	r := testRegistry(t)
	got, err := NewSchemesCommand(r).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(got.Schemes) != 1 || got.Schemes[0] != "mail" {
		t.Errorf("got %v", got.Schemes)
	}
	if got.Message != "Serving mail" {
		t.Errorf("got %q", got.Message)
	}
}
