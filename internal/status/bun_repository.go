package status

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-tms-sync/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists sync metadata using a Bun-backed database.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs a Bun-backed metadata repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

type metadataModel struct {
	bun.BaseModel `bun:"table:tms_sync_status,alias:ts"`

	ID           uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	EntityType   string            `bun:"entity_type,notnull" json:"entity_type"`
	EntityID     string            `bun:"entity_id,notnull" json:"entity_id"`
	DocumentID   string            `bun:"document_id" json:"document_id,omitempty"`
	Hash         string            `bun:"hash" json:"hash,omitempty"`
	SourceStatus string            `bun:"source_status,notnull,default:'untracked'" json:"source_status"`
	TargetStatus map[string]string `bun:"target_status,type:jsonb" json:"target_status,omitempty"`
	JobID        string            `bun:"job_id" json:"job_id,omitempty"`
	ProfileID    string            `bun:"profile_id" json:"profile_id,omitempty"`
	CreatedAt    time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// GetByRef retrieves the record for an entity reference.
func (r *BunRepository) GetByRef(ctx context.Context, ref domain.EntityRef) (*Record, error) {
	if r.db == nil {
		return nil, errors.New("status: bun repository requires a database")
	}
	var model metadataModel
	err := r.db.NewSelect().Model(&model).
		Where("entity_type = ?", ref.Type).
		Where("entity_id = ?", ref.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: ref.String()}
		}
		return nil, err
	}
	return modelToRecord(&model), nil
}

// GetByDocumentID retrieves the record tracking a TMS document id.
func (r *BunRepository) GetByDocumentID(ctx context.Context, documentID string) (*Record, error) {
	if r.db == nil {
		return nil, errors.New("status: bun repository requires a database")
	}
	var model metadataModel
	err := r.db.NewSelect().Model(&model).
		Where("document_id = ?", documentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: documentID}
		}
		return nil, err
	}
	return modelToRecord(&model), nil
}

// ListByJobID returns records stamped with the job grouping tag.
func (r *BunRepository) ListByJobID(ctx context.Context, jobID string) ([]*Record, error) {
	if r.db == nil {
		return nil, errors.New("status: bun repository requires a database")
	}
	var models []metadataModel
	if err := r.db.NewSelect().Model(&models).Where("job_id = ?", jobID).Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(models))
	for i := range models {
		out = append(out, modelToRecord(&models[i]))
	}
	return out, nil
}

// Upsert inserts or replaces the record keyed by its primary key.
func (r *BunRepository) Upsert(ctx context.Context, record *Record) (*Record, error) {
	if r.db == nil {
		return nil, errors.New("status: bun repository requires a database")
	}
	model := modelFromRecord(record)

	var existing metadataModel
	err := r.db.NewSelect().Model(&existing).Where("id = ?", model.ID).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := r.db.NewInsert().Model(model).Exec(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if _, err := r.db.NewUpdate().Model(model).WherePK().Exec(ctx); err != nil {
			return nil, err
		}
	}
	return r.GetByRef(ctx, record.Ref())
}

// Delete removes the record for an entity reference.
func (r *BunRepository) Delete(ctx context.Context, ref domain.EntityRef) error {
	if r.db == nil {
		return errors.New("status: bun repository requires a database")
	}
	var model metadataModel
	err := r.db.NewSelect().Model(&model).
		Where("entity_type = ?", ref.Type).
		Where("entity_id = ?", ref.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Key: ref.String()}
		}
		return err
	}
	_, err = r.db.NewDelete().Model(&model).WherePK().Exec(ctx)
	return err
}

func modelFromRecord(record *Record) *metadataModel {
	model := &metadataModel{
		ID:           record.ID,
		EntityType:   record.EntityType,
		EntityID:     record.EntityID,
		DocumentID:   record.DocumentID,
		Hash:         record.Hash,
		SourceStatus: string(record.SourceStatus),
		JobID:        record.JobID,
		ProfileID:    record.ProfileID,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
	if len(record.TargetStatus) > 0 {
		model.TargetStatus = make(map[string]string, len(record.TargetStatus))
		for locale, status := range record.TargetStatus {
			model.TargetStatus[locale] = string(status)
		}
	}
	return model
}

func modelToRecord(model *metadataModel) *Record {
	record := &Record{
		ID:           model.ID,
		EntityType:   model.EntityType,
		EntityID:     model.EntityID,
		DocumentID:   model.DocumentID,
		Hash:         model.Hash,
		SourceStatus: domain.NormalizeStatus(model.SourceStatus),
		JobID:        model.JobID,
		ProfileID:    model.ProfileID,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if len(model.TargetStatus) > 0 {
		record.TargetStatus = make(map[string]domain.Status, len(model.TargetStatus))
		for locale, status := range model.TargetStatus {
			record.TargetStatus[locale] = domain.NormalizeStatus(status)
		}
	}
	return record
}
