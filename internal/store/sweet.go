package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dkotelnikov/sweet-shop/internal/apperr"
	"github.com/dkotelnikov/sweet-shop/internal/models"
	"github.com/dkotelnikov/sweet-shop/internal/search"
)

// DefaultRestockAmount is applied when a restock request carries no usable
// amount.
const DefaultRestockAmount = 10

type SweetStore struct {
	DB *gorm.DB
}

// UpdateSweet holds the optional fields of a partial update. Nil means
// "leave unchanged".
type UpdateSweet struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *uint    `json:"quantity"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
}

func validateSweet(s *models.Sweet) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return apperr.Validation("description is required")
	}
	if strings.TrimSpace(s.Category) == "" {
		return apperr.Validation("category is required")
	}
	if s.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

func (s *SweetStore) List(ctx context.Context) ([]models.Sweet, error) {
	var items []models.Sweet
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *SweetStore) Search(ctx context.Context, f search.Filter) ([]models.Sweet, error) {
	var items []models.Sweet
	q := f.ApplyGorm(s.DB.WithContext(ctx).Model(&models.Sweet{})).Order("id ASC")
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *SweetStore) Get(ctx context.Context, id uint) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := s.DB.WithContext(ctx).First(&sweet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &sweet, nil
}

func (s *SweetStore) Create(ctx context.Context, sweet *models.Sweet) error {
	if err := validateSweet(sweet); err != nil {
		return err
	}
	if sweet.Image == "" {
		sweet.Image = models.DefaultImage
	}
	return s.DB.WithContext(ctx).Create(sweet).Error
}

func (s *SweetStore) Update(ctx context.Context, id uint, req UpdateSweet) (*models.Sweet, error) {
	sweet, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sweet.Name = *req.Name
	}
	if req.Description != nil {
		sweet.Description = *req.Description
	}
	if req.Price != nil {
		sweet.Price = *req.Price
	}
	if req.Quantity != nil {
		sweet.Quantity = *req.Quantity
	}
	if req.Category != nil {
		sweet.Category = *req.Category
	}
	if req.Image != nil {
		sweet.Image = *req.Image
	}

	if err := validateSweet(sweet); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(sweet).Error; err != nil {
		return nil, err
	}
	return sweet, nil
}

func (s *SweetStore) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Sweet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Purchase decrements the quantity by one. The decrement is a single
// conditional UPDATE, so two concurrent purchases can never both win the
// last unit; purchases of different sweets do not contend.
func (s *SweetStore) Purchase(ctx context.Context, id uint) (*models.Sweet, error) {
	res := s.DB.WithContext(ctx).Model(&models.Sweet{}).
		Where("id = ? AND quantity > 0", id).
		Update("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the sweet is missing or the shelf is empty.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperr.ErrOutOfStock
	}
	return s.Get(ctx, id)
}

// Restock increments the quantity by amount, falling back to
// DefaultRestockAmount when amount is not positive.
func (s *SweetStore) Restock(ctx context.Context, id uint, amount int) (*models.Sweet, int, error) {
	if amount <= 0 {
		amount = DefaultRestockAmount
	}
	res := s.DB.WithContext(ctx).Model(&models.Sweet{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	if res.Error != nil {
		return nil, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, 0, apperr.ErrNotFound
	}
	sweet, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return sweet, amount, nil
}
