package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/coffeeshop/backend/internal/model"
	"gorm.io/gorm"
)

// DrinkUpdate holds the fields of a partial drink update. A nil Title or an
// absent Recipe leaves the stored value untouched.
type DrinkUpdate struct {
	Title  *string
	Recipe json.RawMessage
}

// DrinkService handles drink operations
type DrinkService struct {
	db *gorm.DB
}

// NewDrinkService creates a new DrinkService instance
func NewDrinkService(db *gorm.DB) *DrinkService {
	return &DrinkService{db: db}
}

// List returns every drink ordered by title, rendered in view.
func (s *DrinkService) List(ctx context.Context, view model.View) ([]any, error) {
	var drinks []model.Drink
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&drinks).Error; err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}

	out := make([]any, 0, len(drinks))
	for i := range drinks {
		out = append(out, drinks[i].Render(view))
	}
	return out, nil
}

// Create stores a new drink and returns its long view.
func (s *DrinkService) Create(ctx context.Context, title string, rawRecipe json.RawMessage) (*model.LongDrink, error) {
	recipe, err := model.ParseRecipe(rawRecipe)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}

	drink := model.Drink{Title: title, Recipe: recipe}
	if err := drink.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&drink).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create drink %q: %w", ErrUnprocessable, title, err)
	}

	long := drink.Long()
	return &long, nil
}

// Update applies update to the drink with the given id.
func (s *DrinkService) Update(ctx context.Context, id uint, update DrinkUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var drink model.Drink
		if err := tx.First(&drink, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDrinkNotFound
			}
			return fmt.Errorf("%w: load drink %d: %w", ErrUnprocessable, id, err)
		}

		changes := map[string]interface{}{}
		if update.Title != nil {
			if strings.TrimSpace(*update.Title) == "" {
				return fmt.Errorf("%w: %w", ErrUnprocessable, model.ErrEmptyTitle)
			}
			changes["title"] = *update.Title
		}
		if !absent(update.Recipe) {
			recipe, err := model.ParseRecipe(update.Recipe)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUnprocessable, err)
			}
			changes["recipe"] = recipe
		}
		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&drink).Updates(changes).Error; err != nil {
			return fmt.Errorf("%w: update drink %d: %w", ErrUnprocessable, id, err)
		}
		return nil
	})
}

// Delete removes the drink with the given id and returns that id. Every
// failure is reported as ErrDrinkNotFound.
func (s *DrinkService) Delete(ctx context.Context, id uint) (uint, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var matches int64
		if err := tx.Model(&model.Drink{}).Where("id = ?", id).Count(&matches).Error; err != nil {
			return err
		}
		if matches != 1 {
			return ErrDrinkNotFound
		}

		result := tx.Delete(&model.Drink{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return ErrDrinkNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDrinkNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: delete drink %d: %w", ErrDrinkNotFound, id, err)
	}
	return id, nil
}

func absent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
