package database

import (
	"github.com/spreadhq/spread/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Area{},
	&models.Post{},
	&models.Comment{},
	&models.Reputation{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.PostAssignment{},
			&models.PostReceipt{},
			&models.PostSubscriber{},
			&models.CommentUnread{},
			&models.Flag{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
