package mail

import "postino/internal/adapters/memory"

// NewStore builds a seeded in-memory mail store.
func NewStore() *memory.Store {
	return memory.New(Scheme, Seed())
}

// Seed returns a fresh copy of the demo graph. It is deterministic so
// addresses quoted in documentation and tests stay valid.
func Seed() map[string]any {
	return map[string]any{
		"version":            "1.4.2",
		"fetchInterval":      5,
		"format":             "plain",
		"signaturePlacement": "below",
		"accounts": []any{
			map[string]any{
				"id":       "acc-work",
				"name":     "Work",
				"fullName": "Ada Lovelace",
				"email":    "ada@example.com",
				"mailboxes": []any{
					map[string]any{
						"name":        "Archive",
						"unreadCount": 0,
						"messages": []any{
							message("msg-a1", "2023 planning", "boss@example.com", "2023-01-09T08:30:00Z", true,
								"Kickoff notes for the year."),
						},
						"mailboxes": []any{
							map[string]any{
								"name":        "2023",
								"unreadCount": 0,
								"messages":    []any{},
								"mailboxes":   []any{},
							},
						},
					},
					map[string]any{
						"name":        "Drafts",
						"unreadCount": 0,
						"messages":    []any{},
						"mailboxes":   []any{},
					},
				},
			},
			map[string]any{
				"id":        "acc-personal",
				"name":      "Personal",
				"fullName":  "Ada Lovelace",
				"email":     "ada@home.example",
				"mailboxes": []any{},
			},
		},
		"inboxes": []any{
			map[string]any{
				"id":          "inbox-work",
				"accountId":   "acc-work",
				"unreadCount": 2,
				"messages": []any{
					message("msg-1", "Quarterly report", "carol@example.com", "2024-03-04T09:15:00Z", false,
						"Numbers attached. Please review before Thursday."),
					message("msg-2", "Re: standup notes", "dave@example.com", "2024-03-05T10:05:00Z", true,
						"Moved the demo to Friday."),
					message("msg-3", "Lunch tomorrow?", "erin@example.com", "2024-03-06T12:40:00Z", false,
						"The usual place at noon?"),
				},
			},
			map[string]any{
				"id":          "inbox-personal",
				"accountId":   "acc-personal",
				"unreadCount": 1,
				"messages": []any{
					message("msg-4", "Garden photos", "mom@home.example", "2024-03-02T17:25:00Z", false,
						"The tulips came up early this year."),
				},
			},
		},
		"signatures": []any{
			map[string]any{"id": "sig-short", "name": "Short", "content": "-- Ada"},
			map[string]any{"id": "sig-full", "name": "Full", "content": "Ada Lovelace\nAnalytical Engines Ltd."},
		},
		"rules": []any{
			map[string]any{
				"id":        "rule-reports",
				"name":      "File reports",
				"enabled":   true,
				"criterion": map[string]any{"field": "subject", "contains": "report"},
			},
			map[string]any{
				"id":        "rule-newsletters",
				"name":      "Mute newsletters",
				"enabled":   false,
				"criterion": map[string]any{"field": "from", "contains": "news@"},
			},
		},
	}
}

func message(id, subject, from, dateSent string, read bool, body string) map[string]any {
	return map[string]any{
		"id":       id,
		"subject":  subject,
		"from":     from,
		"dateSent": dateSent,
		"read":     read,
		"body":     body,
	}
}
