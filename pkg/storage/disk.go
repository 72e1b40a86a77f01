package storage

import "time"

// Disk is the storage driver contract. Content documents are small JSON
// files, so the interface stays byte-oriented.
type Disk interface {
	Put(path string, content []byte) error
	Get(path string) ([]byte, error)
	Exists(path string) bool
	Missing(path string) bool
	Delete(path string) error
	Files(directory string) ([]string, error)
	Size(path string) (int64, error)
	LastModified(path string) (time.Time, error)
}
