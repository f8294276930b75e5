// Package mail defines the built-in mail tree: the schema postino serves
// by default and the seed graph behind it. It doubles as the reference for
// wiring a schema of your own; every node kind and decorator appears here.
package mail

import (
	"fmt"
	"strings"
	"time"

	"postino/internal/ports"
	"postino/internal/resolve"
	"postino/internal/schema"
)

// Scheme is the URI scheme the mail tree is served under.
const Scheme = "mail"

// Register mounts the mail tree over store. The store must serve Scheme.
func Register(reg *resolve.Registry, store ports.Store) error {
	return reg.Register(Tree(), store)
}

// Tree builds the mail schema root.
func Tree() *schema.Node {
	inbox := inboxNode()
	return schema.Object(map[string]*schema.Node{
		"version":    schema.Scalar(stringValue),
		"accounts":   schema.Collection(accountNode(inbox), schema.Accessors{ByIndex: true, ByName: true, ByID: true}),
		"inboxes":    schema.Collection(inbox, schema.Accessors{ByIndex: true, ByID: true}),
		"signatures": signaturesNode(),
		"rules":      rulesNode(),
		"settings":   settingsNode(),
	})
}

func accountNode(inbox *schema.Node) *schema.Node {
	return schema.Object(map[string]*schema.Node{
		"id":        schema.Scalar(),
		"name":      schema.Scalar(stringValue),
		"fullName":  schema.WithSet(schema.Scalar(stringValue)),
		"email":     schema.Scalar(stringValue),
		"inbox":     schema.Lazy(schema.ComputedNav(navigateInbox, inbox)),
		"mailboxes": schema.Lazy(schema.Collection(mailboxNode(), schema.Accessors{ByIndex: true, ByName: true})),
	})
}

// navigateInbox finds the account's inbox in the top-level inbox
// collection by matching accountId against the account's id.
func navigateInbox(d ports.Delegate) (ports.Delegate, error) {
	id, err := d.Property("id").Raw()
	if err != nil {
		return nil, err
	}
	boxes := rootOf(d).Property("inboxes")
	raw, err := boxes.Raw()
	if err != nil {
		return nil, err
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("inboxes is %T, not a sequence", raw)
	}
	for i, item := range seq {
		m, ok := item.(map[string]any)
		if !ok || fmt.Sprint(m["accountId"]) != fmt.Sprint(id) {
			continue
		}
		if boxID, ok := m["id"]; ok {
			return boxes.ByID(fmt.Sprint(boxID)), nil
		}
		return boxes.Index(i), nil
	}
	return nil, fmt.Errorf("no inbox for account %v", id)
}

func rootOf(d ports.Delegate) ports.Delegate {
	cur := d
	for {
		p, ok := cur.Parent()
		if !ok {
			return cur
		}
		cur = p
	}
}

func inboxNode() *schema.Node {
	return schema.Object(map[string]*schema.Node{
		"id":          schema.Scalar(),
		"accountId":   schema.Scalar(),
		"unreadCount": schema.Scalar(),
		"messages":    schema.Lazy(messagesNode()),
	})
}

// mailboxNode builds the recursive mailbox shape: a mailbox holds messages
// and further mailboxes. The nested collection gets its item installed
// after construction since it refers back to the node under construction.
func mailboxNode() *schema.Node {
	nested := schema.Lazy(schema.Collection(nil, schema.Accessors{ByIndex: true, ByName: true}))
	mailbox := schema.Object(map[string]*schema.Node{
		"name":        schema.Scalar(stringValue),
		"unreadCount": schema.Scalar(),
		"messages":    schema.Lazy(messagesNode()),
		"mailboxes":   nested,
	})
	nested.SetItem(mailbox)
	return mailbox
}

func messagesNode() *schema.Node {
	return schema.WithCreate(schema.Collection(messageNode(), schema.Accessors{ByIndex: true, ByID: true}))
}

func messageNode() *schema.Node {
	msg := schema.Object(map[string]*schema.Node{
		"id":       schema.Scalar(),
		"subject":  schema.WithSet(schema.Scalar(stringValue)),
		"sender":   schema.Alias(schema.Scalar(stringValue), "from"),
		"dateSent": schema.Scalar(stringValue),
		"date":     schema.Computed(schema.Alias(schema.Scalar(), "dateSent"), parseDate),
		"read":     schema.WithSet(schema.Scalar(boolValue)),
		"body":     schema.Lazy(schema.Scalar(stringValue)),
	})
	return schema.WithDelete(schema.WithMove(msg, nil))
}

// parseDate splits an RFC 3339 timestamp into calendar parts.
func parseDate(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("date field is %T, not a string", raw)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return map[string]any{
		"year":  t.Year(),
		"month": int(t.Month()),
		"day":   t.Day(),
	}, nil
}

func signaturesNode() *schema.Node {
	sig := schema.Object(map[string]*schema.Node{
		"id":      schema.Scalar(),
		"name":    schema.Scalar(stringValue),
		"content": schema.WithSet(schema.Scalar(stringValue)),
	})
	return schema.WithCreate(schema.Collection(schema.WithDelete(sig), schema.Accessors{ByIndex: true, ByName: true}))
}

func rulesNode() *schema.Node {
	rule := schema.Object(map[string]*schema.Node{
		"id":        schema.Scalar(),
		"name":      schema.Scalar(stringValue),
		"enabled":   schema.WithSet(schema.Scalar(boolValue)),
		"criterion": schema.Scalar(),
	})
	item := schema.WithDelete(schema.WithMove(rule, nil))
	return schema.WithCreate(schema.Collection(item, schema.Accessors{ByIndex: true, ByName: true}))
}

// settingsNode groups the root-level preference scalars under one segment
// without moving them in the backing graph.
func settingsNode() *schema.Node {
	return schema.Namespace(schema.Object(map[string]*schema.Node{
		"fetchInterval":      schema.WithSet(schema.Scalar(positiveNumber)),
		"format":             schema.WithSet(schema.Scalar(oneOf("plain", "rich"))),
		"signaturePlacement": schema.WithSet(schema.Scalar(oneOf("above", "below"))),
	}))
}

func stringValue(uri string, v any) error {
	if _, ok := v.(string); !ok {
		return schema.Typef(uri, "string", v)
	}
	return nil
}

func boolValue(uri string, v any) error {
	if _, ok := v.(bool); !ok {
		return schema.Typef(uri, "bool", v)
	}
	return nil
}

func positiveNumber(uri string, v any) error {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return nil
		}
	case int64:
		if n > 0 {
			return nil
		}
	case float64:
		if n > 0 {
			return nil
		}
	}
	return schema.Typef(uri, "positive number", v)
}

func oneOf(allowed ...string) schema.Validator {
	return func(uri string, v any) error {
		if s, ok := v.(string); ok {
			for _, a := range allowed {
				if s == a {
					return nil
				}
			}
		}
		return schema.Typef(uri, "one of "+strings.Join(allowed, "|"), v)
	}
}
