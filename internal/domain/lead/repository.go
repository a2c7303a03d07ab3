package lead

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"intakeflow/internal/domain"
)

// Repository provides lead data access
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts l in a single statement; there is no partial lead.
func (r *Repository) Create(ctx context.Context, l *domain.Lead) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return &domain.PersistenceError{Op: "create lead", Err: err}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, firmID, id uuid.UUID) (*domain.Lead, error) {
	var l domain.Lead
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, id).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Resource: "lead", Key: id.String()}
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get lead", Err: err}
	}
	return &l, nil
}

// ListByFirm returns a page of the firm's leads, newest first, and the
// total matching the filter.
func (r *Repository) ListByFirm(ctx context.Context, firmID uuid.UUID, f ListFilter) ([]domain.Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("firm_id = ?", firmID)
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Score != nil {
		q = q.Where("score = ?", *f.Score)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, &domain.PersistenceError{Op: "count leads", Err: err}
	}

	var leads []domain.Lead
	err := q.Session(&gorm.Session{}).
		Order("created_at DESC").Order("id DESC").
		Limit(f.limit()).
		Offset(f.Offset).
		Find(&leads).Error
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "list leads", Err: err}
	}
	return leads, total, nil
}

// ListSince returns every lead of the firm created at or after since.
func (r *Repository) ListSince(ctx context.Context, firmID uuid.UUID, since time.Time) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND created_at >= ?", firmID, since).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list leads since", Err: err}
	}
	return leads, nil
}

// UpdateFields writes the operator-editable fields present in u.
func (r *Repository) UpdateFields(ctx context.Context, firmID, id uuid.UUID, u domain.LeadUpdate) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}

	tx := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("firm_id = ? AND id = ?", firmID, id).
		Updates(updates)
	if tx.Error != nil {
		return &domain.PersistenceError{Op: "update lead", Err: tx.Error}
	}
	if tx.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "lead", Key: id.String()}
	}
	return nil
}
