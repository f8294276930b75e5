package ports

import "postino/internal/query"

// Delegate is a cursor bound to one location in a backing data graph. It is
// the engine's only abstraction over the actual data source.
//
// Delegates are value-like: every navigation or query-state call returns a
// new Delegate and never mutates the receiver. Navigation is address
// recording only — a step to a location that does not exist succeeds, and
// the miss surfaces later from Raw or from a mutation primitive. The engine
// is single-threaded and synchronous; primitives may block on whatever the
// store talks to.
type Delegate interface {
	// Raw reads the value at the bound location.
	Raw() (any, error)

	// Property navigates one property step by key.
	Property(key string) Delegate
	// AliasedProperty navigates by backingKey while the address records
	// addressKey. Canonical URIs always show the address key.
	AliasedProperty(backingKey, addressKey string) Delegate
	// Namespace records a virtual address segment without moving the
	// location.
	Namespace(addressKey string) Delegate
	// Index navigates to the i-th element of a sequence.
	Index(i int) Delegate
	// ByName navigates to the element whose name field equals name.
	ByName(name string) Delegate
	// ByID navigates to the element whose id field equals id.
	ByID(id string) Delegate

	// CanonicalURI reconstructs the address of this location from the
	// accumulated path and serialized query state.
	CanonicalURI() string

	// Parent returns the enclosing location, or false at the root.
	Parent() (Delegate, bool)

	// Assign overwrites the value at the bound location.
	Assign(value any) error
	// Relocate moves the bound item into the destination collection and
	// returns its new canonical URI.
	Relocate(destination Delegate) (string, error)
	// Remove deletes the bound item and returns the URI it had.
	Remove() (string, error)
	// Insert creates a new item in the bound collection from the given
	// properties and returns its canonical URI.
	Insert(properties map[string]any) (string, error)

	// Query-state accumulation. Filters merge per field, expand fields
	// union, sort and pagination replace; state is copy-on-write.
	WithFilter(filters map[string]query.Predicate) Delegate
	WithSort(sort *query.Sort) Delegate
	WithPagination(page *query.Page) Delegate
	WithExpand(fields []string) Delegate
	QueryState() query.State
	// WithoutQuery drops the accumulated query state, keeping the
	// location. Item addressing always starts from the plain collection,
	// so item URIs stay valid regardless of the query that surfaced them.
	WithoutQuery() Delegate
}

// Store hands out fresh root delegates. Every resolution starts from a new
// root so no query state leaks between requests.
type Store interface {
	// Scheme names the URI scheme this store serves.
	Scheme() string
	Root() Delegate
}
