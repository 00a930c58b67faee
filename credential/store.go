package credential

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Store owns the persisted copy of the credential pair. It is purely
// mechanical: no validation of token structure happens here.
type Store struct {
	storage Storage
	key     string
	logger  zerolog.Logger
}

// NewStore creates a Store persisting under the given key.
func NewStore(storage Storage, key string, logger zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		key:     key,
		logger:  logger,
	}
}

// Load returns the persisted credential pair, or nil when the key is
// absent. A value that no longer parses is logged and reported as an
// empty store; Load never fails.
func (s *Store) Load() *Credential {
	raw, ok := s.storage.Load(s.key)
	if !ok {
		return nil
	}
	var cred Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Discarding unparseable persisted credential")
		return nil
	}
	return &cred
}

// Save persists a serialized copy of the credential pair.
func (s *Store) Save(cred Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return errors.Wrap(err, "[Store.Save] marshal credential")
	}
	if err := s.storage.Save(s.key, string(raw)); err != nil {
		return errors.Wrap(err, "[Store.Save] storage.Save")
	}
	return nil
}

// Clear removes the persisted pair. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	if err := s.storage.Remove(s.key); err != nil {
		return errors.Wrap(err, "[Store.Clear] storage.Remove")
	}
	return nil
}
