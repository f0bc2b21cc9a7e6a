// Package store persists call records, contacts, and biometric profiles.
//
// Records are msgpack-encoded. The BadgerDB-backed implementation is for
// production use; the in-memory implementation is for testing.
//
// Key layout:
//
//	call:{id}         → msgpack-encoded CallRecord
//	callsid:{sid}     → record id (reverse index, unique session id)
//	contact:{id}      → msgpack-encoded Contact
//	phone:{e164}      → contact id (reverse index, unique phone)
//	bio:{contactID}   → msgpack-encoded Profile (one per contact)
//
// The reverse indexes give O(1) lookups by provider session id and by
// phone number without scanning. All mutation happens inside a single
// storage transaction, so concurrent events for the same record are
// serialized by the store and callers never observe partial writes.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface for the call and biometrics domain.
//
// Implementations must be safe for concurrent use and must serialize
// writes per record: UpdateCall and PutProfile are atomic, and a reader
// never sees a half-applied mutation.
type Store interface {
	// CreateCall persists a new call record. A missing ID is assigned.
	// The record's session id, when present, is indexed for event lookup.
	CreateCall(ctx context.Context, rec *CallRecord) (*CallRecord, error)

	// GetCall retrieves a call record by internal id.
	GetCall(ctx context.Context, id string) (*CallRecord, error)

	// GetCallBySession retrieves a call record by provider session id.
	GetCallBySession(ctx context.Context, sessionID string) (*CallRecord, error)

	// UpdateCall applies mutate to the stored record inside a single
	// transaction (read-modify-write) and returns the updated record.
	UpdateCall(ctx context.Context, id string, mutate func(*CallRecord)) (*CallRecord, error)

	// ListCalls returns all call records, most recently created first.
	ListCalls(ctx context.Context) ([]*CallRecord, error)

	// UpsertContact creates a contact keyed by unique phone number, or
	// merges the supplied fields into the existing contact for that phone.
	UpsertContact(ctx context.Context, c *Contact) (*Contact, error)

	// GetContact retrieves a contact by id.
	GetContact(ctx context.Context, id string) (*Contact, error)

	// ListContacts returns all contacts, most recently created first.
	ListContacts(ctx context.Context) ([]*Contact, error)

	// PutProfile stores the biometric profile for a contact, atomically
	// overwriting any previous profile. One profile per contact is the
	// full state; no history is retained.
	PutProfile(ctx context.Context, p *Profile) error

	// GetProfile retrieves the biometric profile for a contact.
	GetProfile(ctx context.Context, contactID string) (*Profile, error)

	// Close releases resources held by the store.
	Close() error
}
