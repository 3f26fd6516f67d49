package pebble

import (
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/accountcheck/db"
	"github.com/NethermindEth/accountcheck/utils"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ db.KeyValueStore = (*DB)(nil)

type DB struct {
	pebble   *pebble.DB
	listener db.EventListener
}

// New opens a database at the given path, creating it if needed.
func New(path string, log utils.SimpleLogger) (*DB, error) {
	return newPebble(path, &pebble.Options{Logger: &pebbleLogger{log: log}})
}

// NewMem opens a new in-memory database
func NewMem() (*DB, error) {
	return newPebble("", &pebble.Options{FS: vfs.NewMem()})
}

func newPebble(path string, options *pebble.Options) (*DB, error) {
	pDB, err := pebble.Open(path, options)
	if err != nil {
		return nil, err
	}
	return &DB{pebble: pDB, listener: &db.SelectiveListener{}}, nil
}

// WithListener registers an EventListener
func (d *DB) WithListener(listener db.EventListener) *DB {
	d.listener = listener
	return d
}

// Get : see db.KeyValueStore.Get
func (d *DB) Get(key []byte, cb func([]byte) error) error {
	start := time.Now()
	val, closer, err := d.pebble.Get(key)
	d.listener.OnIO(false, time.Since(start))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return db.ErrKeyNotFound
		}
		return err
	}
	cbErr := cb(val)
	if err := closer.Close(); err != nil && cbErr == nil {
		return err
	}
	return cbErr
}

// Put : see db.KeyValueStore.Put
func (d *DB) Put(key, val []byte) error {
	if len(key) == 0 {
		return errors.New("empty key")
	}
	start := time.Now()
	defer func() { d.listener.OnIO(true, time.Since(start)) }()
	return d.pebble.Set(key, val, pebble.Sync)
}

func (d *DB) Close() error {
	return d.pebble.Close()
}

// pebbleLogger routes pebble's chatter to debug level.
type pebbleLogger struct {
	log utils.SimpleLogger
}

func (l *pebbleLogger) Infof(format string, args ...any) {
	l.log.Debugw(fmt.Sprintf(format, args...))
}

func (l *pebbleLogger) Errorf(format string, args ...any) {
	l.log.Errorw(fmt.Sprintf(format, args...))
}

func (l *pebbleLogger) Fatalf(format string, args ...any) {
	l.log.Errorw(fmt.Sprintf(format, args...))
	panic(fmt.Sprintf(format, args...))
}
