package services

import (
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EraseAccount detaches a deleted account from everything it touched.
// Posts and comments stay with a null author; stack memberships, subscriber
// rows, unread markers and reputations go with the account. Identity itself
// lives in the external account service, which calls this on deletion.
func EraseAccount(accountID uint) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("account_id = ?", accountID).
			Update("account_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Comment{}).
			Where("account_id = ?", accountID).
			Update("account_id", nil).Error; err != nil {
			return err
		}

		for _, sweep := range []any{
			&models.PostAssignment{},
			&models.PostReceipt{},
			&models.PostSubscriber{},
			&models.CommentUnread{},
			&models.Reputation{},
		} {
			if err := tx.Where("account_id = ?", accountID).Delete(sweep).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("account", accountID).Msg("An error occurred when erasing account...")
		return err
	}

	log.Info().Uint("account", accountID).Msg("Erased account traces.")
	return nil
}
