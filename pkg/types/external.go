package types

// Sanitizer strips executable markup from user-supplied text. It is applied
// to every title, description, and comment body before storage, and must be
// idempotent: sanitizing already-safe text is a no-op.
type Sanitizer interface {
	Sanitize(raw string) string
}

// ObjectStore holds the physical bytes behind attachment records. Locators
// are opaque to the core. Remove tolerates an already-absent object and
// reports success for it.
type ObjectStore interface {
	Put(data []byte, suggestedName string) (locator string, err error)
	Remove(locator string) error
	Exists(locator string) bool
}
