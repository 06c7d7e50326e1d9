package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationFilter struct {
	StageID string
	Limit   int
	Offset  int
}

type ApplicationRepository interface {
	// Create assigns the id and creation time, then inserts.
	Create(ctx context.Context, a *models.Application) error
	// AttachFile sets the stored attachment path once. An unknown or already
	// linked record yields utils.ErrNotFound.
	AttachFile(ctx context.Context, id, storedPath string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, f ApplicationFilter) ([]models.Application, int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

// Migrate creates or updates the applications table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Application{})
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	a.ID = uuid.NewString()
	a.LettreDemandeURL = nil
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *applicationRepo) AttachFile(ctx context.Context, id, storedPath string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND lettre_demande_url IS NULL", id).
		Update("lettre_demande_url", storedPath)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Application{}).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var row models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *applicationRepo) List(ctx context.Context, f ApplicationFilter) ([]models.Application, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.StageID != "" {
			return db.Where("stage_id = ?", f.StageID)
		}
		return db
	}

	var total int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Scopes(scope).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	rows := []models.Application{}
	err = r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
