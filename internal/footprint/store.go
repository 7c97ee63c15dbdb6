package footprint

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodprint/models"
)

// GormStore implements Store over the application database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a database handle in a Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Donation(ctx context.Context, id uint) (*models.Donation, error) {
	var donation models.Donation
	if err := s.db.WithContext(ctx).First(&donation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (s *GormStore) Component(ctx context.Context, id uint) (*models.DishComponent, error) {
	var component models.DishComponent
	if err := s.db.WithContext(ctx).First(&component, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &component, nil
}

func (s *GormStore) DishComponents(ctx context.Context, dishID uint) ([]models.DishComponent, error) {
	var components []models.DishComponent
	err := s.db.WithContext(ctx).
		Where("dish_id = ?", dishID).
		Order("position asc, id asc").
		Find(&components).Error
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (s *GormStore) ComponentIngredients(ctx context.Context, componentID uint) ([]models.ComponentIngredient, error) {
	var ingredients []models.ComponentIngredient
	err := s.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Order("position asc, id asc").
		Find(&ingredients).Error
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *GormStore) ActiveMapping(ctx context.Context, namespace, core string) (*models.IngredientMapping, error) {
	var mapping models.IngredientMapping
	err := s.db.WithContext(ctx).
		Preload("ReferenceFood").
		Where("namespace = ? AND ingredient_core = ? AND active = ?", namespace, core, true).
		Order("id desc").
		First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}

func (s *GormStore) ReferenceFood(ctx context.Context, id uint) (*models.ReferenceFood, error) {
	var food models.ReferenceFood
	if err := s.db.WithContext(ctx).First(&food, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &food, nil
}

// SaveResult overwrites the donation's cached result in place.
func (s *GormStore) SaveResult(ctx context.Context, result *models.DonationResult) error {
	var existing models.DonationResult
	err := s.db.WithContext(ctx).
		Where("donation_id = ?", result.DonationID).
		First(&existing).Error
	if err == nil {
		result.ID = existing.ID
		result.CreatedAt = existing.CreatedAt
		return s.db.WithContext(ctx).Save(result).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(result).Error
	}
	return err
}
