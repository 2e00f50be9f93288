// Package identity persists the client's guest identity between runs:
// the server-issued guest id, the provisioned profile id and the merged
// flag. The three slots are independent; callers read and clear them
// individually. Implementations never return errors: when the backing
// store is unavailable, reads report absent and writes are dropped, so a
// broken disk degrades to re-provisioning instead of a crash.
package identity

// Store holds the client-side identity slots
type Store interface {
	// GuestID returns the cached server guest id, if present
	GuestID() (string, bool)
	SetGuestID(id string)
	ClearGuestID()

	// ProfileID returns the cached profile id, if present
	ProfileID() (string, bool)
	SetProfileID(id string)
	ClearProfileID()

	// Merged reports whether a merge has completed for this identity.
	// Once set it survives restarts and is never cleared by normal
	// operation.
	Merged() bool
	SetMerged()
	ClearMerged()
}
