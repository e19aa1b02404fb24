// Package models defines the domain types shared by storage, index and API.
package models

import "time"

// SourceMeta is the lightweight view of a workspace source file returned by listings.
type SourceMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
