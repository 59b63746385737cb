package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type ResolutionStatus string

const (
	StatusSuccess ResolutionStatus = "SUCCESS"
	StatusFailed  ResolutionStatus = "FAILED"
)

// Resolution is one applied group, persisted in the history database.
type Resolution struct {
	gorm.Model
	Status     ResolutionStatus `gorm:"not null"`
	BasePath   string           `gorm:"not null;index"`
	KeptPath   string           `gorm:"not null"`
	ArchiveDir string           `gorm:"not null"`
	Archived   string
	ErrMsg     string
	ResolvedAt time.Time `gorm:"not null"`
}

// ArchivedPaths splits Archived back into the archive paths written for this resolution.
func (r Resolution) ArchivedPaths() []string {
	if r.Archived == "" {
		return nil
	}
	return strings.Split(r.Archived, "\n")
}
