package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	localCache "github.com/spreadhq/spread/pkg/internal/cache"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"gorm.io/gorm"
)

func GetAreaCacheKey(name string) string {
	return fmt.Sprintf("area#%s", name)
}

// GetArea resolves an area by its slug. Lookups sit on the hot path of every
// request, so hits are served from the local cache for a short while.
func GetArea(name string) (models.Area, error) {
	var area models.Area

	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	if val, err := marshal.Get(ctx, GetAreaCacheKey(name), new(models.Area)); err == nil {
		return *val.(*models.Area), nil
	}

	if err := database.C.Where("name = ?", name).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return area, fmt.Errorf("area %s: %w", name, ErrNotFound)
		}
		return area, fmt.Errorf("unable to get area: %v", err)
	}

	_ = marshal.Set(
		ctx,
		GetAreaCacheKey(name),
		area,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"area", fmt.Sprintf("area#%s", name)}),
	)

	return area, nil
}

func ListArea() ([]models.Area, error) {
	var areas []models.Area
	err := database.C.Order("name").Find(&areas).Error
	return areas, err
}

func NewArea(name, displayname string) (models.Area, error) {
	area := models.Area{
		Name:         name,
		Displayname:  displayname,
		MaxUserStack: models.DefaultMaxUserStack,
		SpreadMin:    models.DefaultSpreadMin,
	}

	var count int64
	if err := database.C.Model(&models.Area{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return area, err
	} else if count > 0 {
		return area, fmt.Errorf("area %s already exists: %w", name, ErrConflict)
	}

	err := database.C.Save(&area).Error
	return area, err
}

// EditArea only touches the display name. Everything else about an area is
// immutable once it exists.
func EditArea(area models.Area, displayname string) (models.Area, error) {
	area.Displayname = displayname
	if err := database.C.Model(&area).Update("displayname", displayname).Error; err != nil {
		return area, err
	}

	marshal := marshaler.New(cache.New[any](localCache.S))
	_ = marshal.Delete(context.Background(), GetAreaCacheKey(area.Name))

	return area, nil
}

// SeedAreas makes sure every area listed in the settings exists.
func SeedAreas(names map[string]string) error {
	for name, displayname := range names {
		if _, err := GetArea(name); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if _, err := NewArea(name, displayname); err != nil {
			return err
		}
	}
	return nil
}
