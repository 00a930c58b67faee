package credential

// Storage is the key/value store the credential pair survives restarts
// in. Implementations must be usable from the first read, without any
// initialisation handshake.
type Storage interface {
	// Load returns the value for key, or ok=false when the key is absent.
	Load(key string) (value string, ok bool)

	// Save writes the value for key, replacing any previous value.
	Save(key, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}
