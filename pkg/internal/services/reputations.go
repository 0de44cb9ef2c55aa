package services

import (
	"fmt"

	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetReputation returns the reputation row of one user in one area, creating
// it lazily on first access. Two racing first-accesses both insert with
// ON CONFLICT DO NOTHING and then read back, so only one row ever exists.
func GetReputation(tx *gorm.DB, area models.Area, accountID uint) (models.Reputation, error) {
	rep := models.Reputation{
		AreaID:    area.ID,
		AccountID: accountID,
	}

	if err := tx.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rep).Error; err != nil {
		return rep, fmt.Errorf("unable to ensure reputation: %v", err)
	}

	if err := tx.
		Where("area_id = ? AND account_id = ?", area.ID, accountID).
		First(&rep).Error; err != nil {
		return rep, fmt.Errorf("unable to get reputation: %v", err)
	}

	return rep, nil
}

// GetSpread returns the spread quota of one user in one area. There is no
// internal write path for reputation scores; whatever policy raises them
// does so out of band, this side only reads.
func GetSpread(tx *gorm.DB, area models.Area, accountID *uint) (int, error) {
	if accountID == nil {
		// Erased author, fall back to the area floor.
		return models.SpreadOf(0, area.SpreadMin), nil
	}

	rep, err := GetReputation(tx, area, *accountID)
	if err != nil {
		return 0, err
	}
	return rep.Spread(area), nil
}

// CountReputation is used by the admin overview only.
func CountReputation(area models.Area) (int64, error) {
	var count int64
	err := database.C.Model(&models.Reputation{}).
		Where("area_id = ?", area.ID).
		Count(&count).Error
	return count, err
}
