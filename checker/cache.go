package checker

import (
	"errors"
	"io"

	"github.com/NethermindEth/accountcheck/core/felt"
	"github.com/NethermindEth/accountcheck/db"
)

// VerdictCache remembers whether a class is an account. Declared classes never
// change, so entries do not expire.
type VerdictCache interface {
	Verdict(classHash *felt.ClassHash) (isAccount, found bool, err error)
	StoreVerdict(classHash *felt.ClassHash, isAccount bool) error
}

type storeCache struct {
	store db.KeyValueStore
}

// NewVerdictCache keeps verdicts in store under the db.ClassVerdict prefix.
// Closing the cache closes store.
func NewVerdictCache(store db.KeyValueStore) VerdictCache {
	return &storeCache{store: store}
}

func verdictKey(classHash *felt.ClassHash) []byte {
	b := (*felt.Felt)(classHash).Bytes()
	return db.Key(db.ClassVerdict, b[:])
}

func (s *storeCache) Verdict(classHash *felt.ClassHash) (bool, bool, error) {
	var isAccount bool
	err := s.store.Get(verdictKey(classHash), func(val []byte) error {
		isAccount = len(val) == 1 && val[0] == 1
		return nil
	})
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, false, nil
	} else if err != nil {
		return false, false, err
	}
	return isAccount, true, nil
}

func (s *storeCache) StoreVerdict(classHash *felt.ClassHash, isAccount bool) error {
	val := []byte{0}
	if isAccount {
		val[0] = 1
	}
	return s.store.Put(verdictKey(classHash), val)
}

func (s *storeCache) Close() error {
	return s.store.Close()
}

var _ io.Closer = (*storeCache)(nil)
