package persistence

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/distributor/backend/internal/domain/document"
	"github.com/distributor/backend/internal/infrastructure/persistence/models"
)

// nextNumber issues the next document number for kind. It must run inside
// the creating transaction: the increment takes the row lock, so a
// concurrent creator waits until this transaction ends.
func nextNumber(tx *gorm.DB, kind document.Kind) (int64, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.DocumentTrackerModel{DocType: string(kind)}).Error; err != nil {
		return 0, fmt.Errorf("seed tracker for %s: %w", kind, err)
	}

	if err := tx.Model(&models.DocumentTrackerModel{}).
		Where("doc_type = ?", string(kind)).
		UpdateColumn("last_number", gorm.Expr("last_number + ?", 1)).Error; err != nil {
		return 0, fmt.Errorf("increment tracker for %s: %w", kind, err)
	}

	var tracker models.DocumentTrackerModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doc_type = ?", string(kind)).
		Take(&tracker).Error; err != nil {
		return 0, fmt.Errorf("read tracker for %s: %w", kind, err)
	}
	return tracker.LastNumber, nil
}
