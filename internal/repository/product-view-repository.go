package repository

import (
	"errors"
	"time"

	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/helper"
	"gorm.io/gorm"
)

type ProductViewRepository interface {
	GetOrCreate(productID uint) (*domain.ProductView, error)
	Increment(productID uint) error
	FindByProductID(productID uint) (*domain.ProductView, error)
	List() ([]domain.ProductView, error)
}

type productViewRepository struct {
	db *gorm.DB
}

func NewProductViewRepository(db *gorm.DB) ProductViewRepository {
	return &productViewRepository{db: db}
}

func (r *productViewRepository) GetOrCreate(productID uint) (*domain.ProductView, error) {
	var pv domain.ProductView
	err := r.db.Where("product_id = ?", productID).First(&pv).Error
	if err == nil {
		return &pv, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	pv = domain.ProductView{ProductID: productID}
	if err := r.db.Create(&pv).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			// lost the race, the row is there now
			if err := r.db.Where("product_id = ?", productID).First(&pv).Error; err != nil {
				return nil, err
			}
			return &pv, nil
		}
		return nil, err
	}
	return &pv, nil
}

func (r *productViewRepository) Increment(productID uint) error {
	if _, err := r.GetOrCreate(productID); err != nil {
		return err
	}
	return r.db.
		Model(&domain.ProductView{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"view_count":     gorm.Expr("view_count + 1"),
			"last_viewed_at": time.Now(),
		}).Error
}

func (r *productViewRepository) FindByProductID(productID uint) (*domain.ProductView, error) {
	var pv domain.ProductView
	if err := r.db.Where("product_id = ?", productID).First(&pv).Error; err != nil {
		return nil, err
	}
	return &pv, nil
}

func (r *productViewRepository) List() ([]domain.ProductView, error) {
	var views []domain.ProductView
	if err := r.db.Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
