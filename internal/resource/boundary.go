// Package resource is the read boundary of the engine. It materializes
// addresses into transport-ready values and windows collection results
// behind a pagination envelope so no caller ever receives an unbounded
// list.
package resource

import (
	"strings"

	"postino/internal/query"
	"postino/internal/resolve"
	"postino/internal/schema"
)

const (
	// DefaultPageLimit caps collection reads that ask for no window.
	DefaultPageLimit = 20
	// MaxPageLimit caps the window a caller may ask for.
	MaxPageLimit = 100
)

// Boundary reads addresses through a registry and applies the windowing
// rules on the way out.
type Boundary struct {
	registry     *resolve.Registry
	defaultLimit int
	maxLimit     int
}

// Result is the outcome of a read: the materialized value and the
// canonical form of the address that produced it.
type Result struct {
	URI   string `json:"uri"`
	Value any    `json:"value"`
}

// NewBoundary builds a read boundary. Non-positive limits fall back to the
// package defaults.
func NewBoundary(reg *resolve.Registry, defaultLimit, maxLimit int) *Boundary {
	b := &Boundary{registry: reg, defaultLimit: defaultLimit, maxLimit: maxLimit}
	if b.defaultLimit <= 0 {
		b.defaultLimit = DefaultPageLimit
	}
	if b.maxLimit <= 0 {
		b.maxLimit = MaxPageLimit
	}
	return b
}

// Read resolves raw and materializes its value. Collection results larger
// than the default window, or reads that asked for a window explicitly,
// come back wrapped in a pagination envelope. Record results whose
// canonical address differs from the requested one carry it under "_uri".
func (b *Boundary) Read(raw string) (Result, error) {
	sp, err := b.registry.Resolve(raw)
	if err != nil {
		return Result{}, err
	}
	requested := sp.Delegate().QueryState().Page
	full := sp
	if requested != nil {
		if full, err = sp.Paginate(nil); err != nil {
			return Result{}, err
		}
	}
	v, err := full.Resolve()
	if err != nil {
		return Result{}, err
	}
	out := Result{URI: sp.URI()}
	if sp.Node().Kind() == schema.KindCollection {
		list, ok := v.([]any)
		if ok {
			out.Value = b.window(sp, list, requested)
			return out, nil
		}
	}
	out.Value = stampURI(raw, out.URI, v)
	return out, nil
}

// Exists reports whether a value is present at raw. A structurally invalid
// address is an error; a valid address with nothing behind it is false.
func (b *Boundary) Exists(raw string) (bool, error) {
	sp, err := b.registry.Resolve(raw)
	if err != nil {
		return false, err
	}
	return sp.Exists(), nil
}

// window slices the full result per the requested page and wraps it in an
// envelope when the caller asked for a window or the result overflows the
// default one. Small unwindowed results pass through as plain lists.
func (b *Boundary) window(sp *schema.Specifier, full []any, requested *query.Page) any {
	total := len(full)
	if requested == nil && total <= b.defaultLimit {
		return full
	}
	limit := b.defaultLimit
	offset := 0
	if requested != nil {
		if requested.Limit > 0 {
			limit = requested.Limit
		}
		if requested.Offset > 0 {
			offset = requested.Offset
		}
	}
	if limit > b.maxLimit {
		limit = b.maxLimit
	}
	items := []any{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		items = full[offset:end]
	}
	page := map[string]any{
		"total":    total,
		"returned": len(items),
		"offset":   offset,
		"limit":    limit,
	}
	if offset+len(items) < total {
		next := query.Page{Limit: limit, Offset: offset + len(items)}
		page["next"] = sp.Delegate().WithPagination(&next).CanonicalURI()
	} else {
		page["next"] = nil
	}
	return map[string]any{
		"_pagination": page,
		"items":       items,
	}
}

// stampURI adds the canonical address to record values when it differs
// from what the caller typed: aliased names, id folding and computed
// navigation all normalize addresses.
func stampURI(raw, canonical string, v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if canonical == strings.TrimSpace(raw) {
		return v
	}
	out := make(map[string]any, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out["_uri"] = canonical
	return out
}
