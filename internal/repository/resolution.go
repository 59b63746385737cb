package repository

import (
	"path/filepath"
	"stconflict/internal/db"
	"stconflict/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ResolutionRepository struct{}

func NewResolutionRepository() *ResolutionRepository {
	return &ResolutionRepository{}
}

func (r *ResolutionRepository) Save(res model.Resolution) error {
	return db.DB.Create(&res).Error
}

// Query selects resolutions. Zero fields do not filter.
type Query struct {
	// Root keeps resolutions whose base path lies inside this directory.
	Root string
	// Base keeps the resolutions of one logical file.
	Base   string
	Status model.ResolutionStatus
	Limit  int
}

func (q Query) scope(tx *gorm.DB) *gorm.DB {
	if q.Root != "" {
		prefix := escapeLike(strings.TrimSuffix(q.Root, string(filepath.Separator))+string(filepath.Separator)) + "%"
		tx = tx.Where(`base_path LIKE ? ESCAPE '\'`, prefix)
	}
	if q.Base != "" {
		tx = tx.Where("base_path = ?", q.Base)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	return tx
}

// Find returns matching resolutions, newest first.
func (r *ResolutionRepository) Find(q Query) ([]model.Resolution, error) {
	tx := q.scope(db.DB.Model(&model.Resolution{})).
		Order("resolved_at desc").
		Order("id desc")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var resolutions []model.Resolution
	return resolutions, tx.Find(&resolutions).Error
}

type Stats struct {
	Total   int64
	Success int64
	Failed  int64
	// Files is the number of distinct logical files resolved.
	Files int64
	// Last is the time of the newest resolution, zero when there is none.
	Last time.Time
}

// GetStats summarizes the resolutions under root, or all of them when root is empty.
func (r *ResolutionRepository) GetStats(root string) (Stats, error) {
	var stats Stats
	q := Query{Root: root}

	if err := q.scope(db.DB.Model(&model.Resolution{})).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := q.scope(db.DB.Model(&model.Resolution{})).
		Where("status = ?", model.StatusSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	if err := q.scope(db.DB.Model(&model.Resolution{})).
		Distinct("base_path").
		Count(&stats.Files).Error; err != nil {
		return stats, err
	}

	q.Limit = 1
	last, err := r.Find(q)
	if err != nil {
		return stats, err
	}
	if len(last) > 0 {
		stats.Last = last[0].ResolvedAt
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
