// Package storage defines the content-directory file abstraction.
package storage

// Provider is the interface for content file operations. All paths are
// relative to the provider's root directory.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write writes content to path under an exclusive advisory lock,
	// atomically (tmp file, fsync, rename).
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
}
