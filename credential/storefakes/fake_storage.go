package storefakes

import (
	"sync"

	"github.com/jrsteele09/go-booking-client/credential"
)

var _ credential.Storage = (*FakeStorage)(nil)

// FakeStorage is an in-memory Storage for tests.
type FakeStorage struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		values: make(map[string]string),
	}
}

func (fs *FakeStorage) Load(key string) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	value, ok := fs.values[key]
	return value, ok
}

func (fs *FakeStorage) Save(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
	return nil
}

func (fs *FakeStorage) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	delete(fs.values, key)
	return nil
}
