package firm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"intakeflow/internal/domain"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByIdentifier resolves a firm by uuid or by slug.
func (r *Repository) GetByIdentifier(ctx context.Context, ident string) (*domain.Firm, error) {
	ident = strings.TrimSpace(ident)
	if id, err := uuid.Parse(ident); err == nil {
		return r.GetByID(ctx, id)
	}

	var f domain.Firm
	err := r.db.WithContext(ctx).Where("slug = ?", strings.ToLower(ident)).First(&f).Error
	if err != nil {
		return nil, translate(err, "get firm", ident)
	}
	return &f, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Firm, error) {
	var f domain.Firm
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, translate(err, "get firm", id.String())
	}
	return &f, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Firm, error) {
	var firms []domain.Firm
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&firms).Error; err != nil {
		return nil, &domain.PersistenceError{Op: "list firms", Err: err}
	}
	return firms, nil
}

func (r *Repository) Create(ctx context.Context, f *domain.Firm) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return translate(err, "create firm", f.Slug)
	}
	return nil
}

// SaveSettings writes the operator-editable columns of f.
func (r *Repository) SaveSettings(ctx context.Context, f *domain.Firm) error {
	tx := r.db.WithContext(ctx).
		Model(f).
		Select("name", "slug", "notification_email", "service_states", "min_budget", "updated_at").
		Updates(f)
	if tx.Error != nil {
		return translate(tx.Error, "update firm settings", f.ID.String())
	}
	if tx.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "firm", Key: f.ID.String()}
	}
	return nil
}

func translate(err error, op, key string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &domain.NotFoundError{Resource: "firm", Key: key}
	case isUniqueViolation(err):
		return ErrSlugTaken
	default:
		return &domain.PersistenceError{Op: op, Err: err}
	}
}
