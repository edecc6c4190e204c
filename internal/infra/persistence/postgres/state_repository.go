// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"keystore/internal/domain/repository"
	"keystore/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// stateRepository implements the repository.StateRepository interface.
type stateRepository struct {
	db *gorm.DB
}

// NewStateRepository is the constructor for stateRepository.
func NewStateRepository(db *gorm.DB) repository.StateRepository {
	return &stateRepository{
		db: db,
	}
}

// Migrate creates or updates the client_states table.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&model.ClientStateModel{}), "failed to migrate client_states")
}

// Load reads from the primary so a client always sees its own last write.
func (repo *stateRepository) Load(ctx context.Context, namespace, collection string) ([]byte, error) {
	var stateM model.ClientStateModel

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("namespace = ? AND collection = ?", namespace, collection).
		First(&stateM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStateNotFound
		}

		return nil, errors.Wrap(err, "failed to load client state")
	}

	return stateM.Payload, nil
}

// Save upserts the collection payload; the newest write wins.
func (repo *stateRepository) Save(ctx context.Context, namespace, collection string, payload []byte) error {
	stateM := &model.ClientStateModel{
		Namespace:  namespace,
		Collection: collection,
		Payload:    payload,
		UpdatedAt:  time.Now(),
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "collection"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(stateM).Error; err != nil {
		return errors.Wrap(err, "failed to save client state")
	}

	return nil
}

// Delete removes the collection row if present.
func (repo *stateRepository) Delete(ctx context.Context, namespace, collection string) error {
	if err := repo.db.WithContext(ctx).
		Where("namespace = ? AND collection = ?", namespace, collection).
		Delete(&model.ClientStateModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete client state")
	}

	return nil
}
