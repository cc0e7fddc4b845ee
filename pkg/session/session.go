// Package session persists transcription runs in BadgerDB: the merged
// transcript, the speaker roster, and the generated tale, all keyed by a
// session ID. Values are msgpack-encoded.
//
// A Store can run in memory-only mode, which backs tests with the real
// badger engine.
package session

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/krakendreams/scribe/pkg/speaker"
	"github.com/krakendreams/scribe/pkg/transcript"
)

// ErrNotFound is returned when a session or one of its records does not
// exist.
var ErrNotFound = errors.New("session: not found")

// Session is the metadata record for one transcription run.
type Session struct {
	// ID is the unique identifier, assigned at creation.
	ID string `msgpack:"id"`

	// Name is the user-visible session name.
	Name string `msgpack:"name"`

	// CreatedAt and UpdatedAt are Unix timestamps in nanoseconds.
	CreatedAt int64 `msgpack:"ct"`
	UpdatedAt int64 `msgpack:"ut"`
}

// Tale is the stored outcome of a narrative run.
type Tale struct {
	Title   string `msgpack:"title,omitempty"`
	Closing string `msgpack:"closing,omitempty"`
	Prose   string `msgpack:"prose"`
	Summary string `msgpack:"summary,omitempty"`
}

// identityRec mirrors speaker.Identity for storage.
type identityRec struct {
	Name   string `msgpack:"name"`
	Gender string `msgpack:"gender,omitempty"`
	Avatar string `msgpack:"avatar,omitempty"`
}

// Options configures a Store.
type Options struct {
	// Dir is the directory for badger data files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs badger without disk persistence.
	InMemory bool

	// Logger sets the badger logger. If nil, info and debug output is
	// suppressed.
	Logger badger.Logger
}

// Store is a session store backed by BadgerDB.
type Store struct {
	db *badger.DB
}

func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("session: Options.Dir is required for on-disk mode")
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
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create allocates a new session with a fresh ID.
func (s *Store) Create(ctx context.Context, name string) (*Session, error) {
	now := time.Now().UnixNano()
	sess := &Session{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.put(metaKey(sess.ID), sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session's metadata.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	if err := s.get(metaKey(id), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// List returns every session, newest first.
func (s *Store) List(ctx context.Context) ([]*Session, error) {
	var out []*Session
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(iterOpts.Prefix); it.ValidForPrefix(iterOpts.Prefix); it.Next() {
			item := it.Item()
			if !isMetaKey(item.Key()) {
				continue
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var sess Session
			if err := msgpack.Unmarshal(val, &sess); err != nil {
				return err
			}
			out = append(out, &sess)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

// Rename updates a session's name.
func (s *Store) Rename(ctx context.Context, id, name string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Name = name
	sess.UpdatedAt = time.Now().UnixNano()
	return s.put(metaKey(id), sess)
}

// Delete removes the session and every record stored under it.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range sessionKeys(id) {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// SaveTranscript stores the merged transcript for a session.
func (s *Store) SaveTranscript(ctx context.Context, id string, segs []transcript.Segment) error {
	if err := s.touch(id); err != nil {
		return err
	}
	return s.put(transcriptKey(id), segs)
}

// Transcript loads the merged transcript for a session.
func (s *Store) Transcript(ctx context.Context, id string) ([]transcript.Segment, error) {
	var segs []transcript.Segment
	if err := s.get(transcriptKey(id), &segs); err != nil {
		return nil, err
	}
	return segs, nil
}

// SaveRoster stores the speaker roster for a session.
func (s *Store) SaveRoster(ctx context.Context, id string, roster *speaker.Roster) error {
	if err := s.touch(id); err != nil {
		return err
	}
	recs := make(map[string]identityRec, roster.Len())
	for _, label := range roster.Labels() {
		sid := roster.Identity(label)
		recs[label] = identityRec{Name: sid.Name, Gender: sid.Gender, Avatar: sid.Avatar}
	}
	return s.put(rosterKey(id), recs)
}

// Roster loads the speaker roster for a session. Color indexes are
// recomputed from the labels, so they are not stored.
func (s *Store) Roster(ctx context.Context, id string) (*speaker.Roster, error) {
	var recs map[string]identityRec
	if err := s.get(rosterKey(id), &recs); err != nil {
		return nil, err
	}
	roster := speaker.NewRoster()
	for label, rec := range recs {
		roster.Assign(label, rec.Name, rec.Gender, rec.Avatar)
	}
	return roster, nil
}

// SaveTale stores the generated tale for a session.
func (s *Store) SaveTale(ctx context.Context, id string, tale *Tale) error {
	if err := s.touch(id); err != nil {
		return err
	}
	return s.put(taleKey(id), tale)
}

// Tale loads the generated tale for a session.
func (s *Store) Tale(ctx context.Context, id string) (*Tale, error) {
	var tale Tale
	if err := s.get(taleKey(id), &tale); err != nil {
		return nil, err
	}
	return &tale, nil
}

// touch bumps UpdatedAt, verifying the session exists.
func (s *Store) touch(id string) error {
	var sess Session
	if err := s.get(metaKey(id), &sess); err != nil {
		return err
	}
	sess.UpdatedAt = time.Now().UnixNano()
	return s.put(metaKey(id), &sess)
}

func (s *Store) put(key []byte, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (s *Store) get(key []byte, v any) error {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(val, v)
}

// quietLogger suppresses badger's info and debug chatter.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}
