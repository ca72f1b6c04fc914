package repository

import (
	"errors"

	"github.com/cataloghq/catalog_service/internal/domain"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(productID uint) (*domain.Product, error)
	FindBySKU(sku string) (*domain.Product, error)
	FindByName(name string) (*domain.Product, error)
	List() ([]domain.Product, error)
	Create(product *domain.Product) error
	Save(product *domain.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(productID uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(sku string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByName(name string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.Where("name = ?", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List() ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Create(product *domain.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	return r.db.Create(product).Error
}

func (r *productRepository) Save(product *domain.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	return r.db.Save(product).Error
}
