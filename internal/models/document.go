// ABOUTME: Document identity used by the embedding index cache
// ABOUTME: A document version is its filename plus last-modified time
package models

import (
	"fmt"
	"time"
)

// DocumentKey identifies one version of a source document
type DocumentKey struct {
	Name    string    `json:"name"`
	ModTime time.Time `json:"mod_time"`
}

func (k DocumentKey) String() string {
	return fmt.Sprintf("%s@%d", k.Name, k.ModTime.UnixNano())
}

// Document is a source file the engine can read
type Document struct {
	Key  DocumentKey
	Path string
}
