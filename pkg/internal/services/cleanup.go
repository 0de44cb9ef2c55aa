package services

import (
	"time"

	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup prunes unread markers whose parent post left the
// activity window. Correctness never depends on this job, it only keeps the
// notification table from growing without bound.
func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-models.ActivityWindow)

	expired := database.C.Model(&models.Post{}).
		Select("id").
		Where("is_draft = ? AND published_at < ?", false, deadline)

	res := database.C.
		Where("post_id IN (?)", expired).
		Delete(&models.CommentUnread{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("An error occurred when cleaning up database...")
		return
	}
	if res.RowsAffected > 0 {
		log.Info().Int64("markers", res.RowsAffected).Msg("Cleaned up stale unread markers.")
	}
}
