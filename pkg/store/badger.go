package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Key prefixes. See the package comment for the full layout.
const (
	prefixCall    = "call:"
	prefixCallSID = "callsid:"
	prefixContact = "contact:"
	prefixPhone   = "phone:"
	prefixBio     = "bio:"
)

// Badger is a Store implementation backed by BadgerDB v4.
//
// Badger transactions give the per-record serialization the merge policy
// relies on: UpdateCall's read-modify-write runs inside one Update
// transaction and conflicting writers retry at the storage layer.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures the BadgerDB store.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB data files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode (no disk persistence).
	// Useful for testing with the real badger engine.
	InMemory bool

	// Logger sets the badger logger. If nil, a quiet logger that only
	// reports warnings and errors is used.
	Logger badger.Logger
}

// NewBadger creates a new BadgerDB-backed Store.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("store: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	if opts.Logger != nil {
		dbOpts = dbOpts.WithLogger(opts.Logger)
	} else {
		dbOpts = dbOpts.WithLogger(quietLogger{})
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

func (b *Badger) CreateCall(_ context.Context, rec *CallRecord) (*CallRecord, error) {
	cp := rec.Clone()
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now

	err := b.db.Update(func(txn *badger.Txn) error {
		if cp.SessionID != "" {
			// Session ids are unique; refuse to shadow an existing record.
			if _, err := txn.Get([]byte(prefixCallSID + cp.SessionID)); err == nil {
				return fmt.Errorf("store: session %q already exists", cp.SessionID)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set([]byte(prefixCallSID+cp.SessionID), []byte(cp.ID)); err != nil {
				return err
			}
		}
		return setRecord(txn, prefixCall+cp.ID, cp)
	})
	if err != nil {
		return nil, err
	}
	return cp, nil
}

func (b *Badger) GetCall(_ context.Context, id string) (*CallRecord, error) {
	var rec CallRecord
	if err := b.view(prefixCall+id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (b *Badger) GetCallBySession(ctx context.Context, sessionID string) (*CallRecord, error) {
	var rec *CallRecord
	err := b.db.View(func(txn *badger.Txn) error {
		id, err := getBytes(txn, prefixCallSID+sessionID)
		if err != nil {
			return err
		}
		var r CallRecord
		if err := getRecord(txn, prefixCall+string(id), &r); err != nil {
			return err
		}
		rec = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (b *Badger) UpdateCall(_ context.Context, id string, mutate func(*CallRecord)) (*CallRecord, error) {
	var updated *CallRecord
	err := b.db.Update(func(txn *badger.Txn) error {
		var rec CallRecord
		if err := getRecord(txn, prefixCall+id, &rec); err != nil {
			return err
		}
		hadSID := rec.SessionID
		mutate(&rec)
		rec.ID = id // the mutation must not re-key the record
		rec.UpdatedAt = time.Now().UTC()
		if rec.SessionID != hadSID && rec.SessionID != "" {
			if err := txn.Set([]byte(prefixCallSID+rec.SessionID), []byte(id)); err != nil {
				return err
			}
		}
		if err := setRecord(txn, prefixCall+id, &rec); err != nil {
			return err
		}
		updated = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (b *Badger) ListCalls(_ context.Context) ([]*CallRecord, error) {
	var out []*CallRecord
	err := b.scan(prefixCall, func(val []byte) error {
		var rec CallRecord
		if err := msgpack.Unmarshal(val, &rec); err != nil {
			return err
		}
		out = append(out, &rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (b *Badger) UpsertContact(_ context.Context, c *Contact) (*Contact, error) {
	if c.Phone == "" {
		return nil, errors.New("store: contact phone is required")
	}
	var result *Contact
	err := b.db.Update(func(txn *badger.Txn) error {
		id, err := getBytes(txn, prefixPhone+c.Phone)
		switch {
		case err == nil:
			// Existing contact: merge label, messaging address, metadata.
			var cur Contact
			if err := getRecord(txn, prefixContact+string(id), &cur); err != nil {
				return err
			}
			mergeContact(&cur, c)
			cur.UpdatedAt = time.Now().UTC()
			if err := setRecord(txn, prefixContact+cur.ID, &cur); err != nil {
				return err
			}
			result = cur.Clone()
			return nil
		case errors.Is(err, ErrNotFound):
			cp := c.Clone()
			if cp.ID == "" {
				cp.ID = uuid.NewString()
			}
			now := time.Now().UTC()
			cp.CreatedAt = now
			cp.UpdatedAt = now
			if err := txn.Set([]byte(prefixPhone+cp.Phone), []byte(cp.ID)); err != nil {
				return err
			}
			if err := setRecord(txn, prefixContact+cp.ID, cp); err != nil {
				return err
			}
			result = cp
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *Badger) GetContact(_ context.Context, id string) (*Contact, error) {
	var c Contact
	if err := b.view(prefixContact+id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (b *Badger) ListContacts(_ context.Context) ([]*Contact, error) {
	var out []*Contact
	err := b.scan(prefixContact, func(val []byte) error {
		var c Contact
		if err := msgpack.Unmarshal(val, &c); err != nil {
			return err
		}
		out = append(out, &c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (b *Badger) PutProfile(_ context.Context, p *Profile) error {
	if p.ContactID == "" {
		return errors.New("store: profile contact id is required")
	}
	cp := p.Clone()
	cp.UpdatedAt = time.Now().UTC()
	return b.db.Update(func(txn *badger.Txn) error {
		return setRecord(txn, prefixBio+cp.ContactID, cp)
	})
}

func (b *Badger) GetProfile(_ context.Context, contactID string) (*Profile, error) {
	var p Profile
	if err := b.view(prefixBio+contactID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// view reads and decodes a single record in a read-only transaction.
func (b *Badger) view(key string, dst any) error {
	return b.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, key, dst)
	})
}

// scan iterates all values under a key prefix.
func (b *Badger) scan(prefix string, fn func(val []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(prefix)
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(val); err != nil {
				return err
			}
		}
		return nil
	})
}

func getBytes(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func getRecord(txn *badger.Txn, key string, dst any) error {
	val, err := getBytes(txn, key)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(val, dst)
}

func setRecord(txn *badger.Txn, key string, src any) error {
	val, err := msgpack.Marshal(src)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), val)
}

// mergeContact folds the supplied fields into an existing contact.
// Identity (id, phone) is immutable.
func mergeContact(dst, src *Contact) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.WhatsApp != "" {
		dst.WhatsApp = src.WhatsApp
	}
	if len(src.Metadata) > 0 {
		if dst.Metadata == nil {
			dst.Metadata = make(map[string]any, len(src.Metadata))
		}
		for k, v := range src.Metadata {
			dst.Metadata[k] = v
		}
	}
}

// quietLogger suppresses badger debug and info output.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}
