package adapters

import (
	"context"
	"fuelprices_dashboard/internal/feature/archive/domain/entity"
	"fuelprices_dashboard/internal/feature/archive/usecase"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerGorm struct {
	db *gorm.DB
}

var _ usecase.Ledger = (*ledgerGorm)(nil)

func NewLedger(db *gorm.DB) *ledgerGorm {
	return &ledgerGorm{db: db}
}

type ArchiveFileModel struct {
	ID   uint   `gorm:"primaryKey"`
	Kind string `gorm:"size:32;not null;index"`
	Href string `gorm:"size:512;not null"`
	URL  string `gorm:"size:1024;not null"`
	Path string `gorm:"size:1024;not null;uniqueIndex"`

	Size      int64     `gorm:"not null;default:0"`
	FetchedAt time.Time `gorm:"not null"`
}

func (ArchiveFileModel) TableName() string {
	return "archive_files"
}

func toModel(e entity.ArchiveFile) ArchiveFileModel {
	return ArchiveFileModel{
		Kind:      string(e.Kind),
		Href:      e.Href,
		URL:       e.URL,
		Path:      e.Path,
		Size:      e.Size,
		FetchedAt: e.FetchedAt,
	}
}

func (r *ledgerGorm) Has(ctx context.Context, path string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&ArchiveFileModel{}).
		Where("path = ?", path).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Record は同じpathの行があれば上書きします。
func (r *ledgerGorm) Record(ctx context.Context, f entity.ArchiveFile) error {
	m := toModel(f)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "href", "url", "size", "fetched_at"}),
	}).Create(&m).Error
}

func (r *ledgerGorm) List(ctx context.Context, kind entity.DataKind) ([]entity.ArchiveFile, error) {
	var rows []ArchiveFileModel
	if err := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("fetched_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.ArchiveFile, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.ArchiveFile{
			Kind:      entity.DataKind(m.Kind),
			Href:      m.Href,
			URL:       m.URL,
			Path:      m.Path,
			Size:      m.Size,
			FetchedAt: m.FetchedAt,
		})
	}
	return out, nil
}
