package content

// Repo stores content items keyed by id and remembers insertion order.
// Implementations must be safe for concurrent use.
type Repo interface {
	// Upsert stores item. A new id is appended to the insertion order; an
	// existing id is replaced in place. The stored item is returned.
	Upsert(item Item) (Item, error)

	// Get returns the item with id or errors.ErrNotFound
	Get(id string) (Item, error)

	// List returns every item in insertion order
	List() []Item
}
