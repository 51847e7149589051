package credentials

// Repo stores one Credential per user id. Implementations must be safe for
// concurrent use and return copies so callers cannot mutate stored records.
type Repo interface {
	// Upsert creates or replaces the credential for c.UserID
	Upsert(c Credential) error

	// Get returns the credential for userID or errors.ErrNotFound
	Get(userID string) (Credential, error)

	// SetActive toggles the active flag without touching the rest of the record
	SetActive(userID string, active bool) error

	// List returns all credentials ordered by user id
	List() ([]Credential, error)
}
