package repository

import (
	"errors"

	"github.com/cataloghq/catalog_service/internal/domain"
	"gorm.io/gorm"
)

type BrandRepository interface {
	FindByID(brandID uint) (*domain.Brand, error)
	FindByName(name string) (*domain.Brand, error)
	List() ([]domain.Brand, error)
	Create(brand *domain.Brand) error
	Save(brand *domain.Brand) error
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) FindByID(brandID uint) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.First(&brand, brandID).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindByName(name string) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.Where("name = ?", name).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) List() ([]domain.Brand, error) {
	var brands []domain.Brand
	if err := r.db.Order("id ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) Create(brand *domain.Brand) error {
	if brand == nil {
		return errors.New("nil brand")
	}
	return r.db.Create(brand).Error
}

func (r *brandRepository) Save(brand *domain.Brand) error {
	if brand == nil {
		return errors.New("nil brand")
	}
	return r.db.Save(brand).Error
}
