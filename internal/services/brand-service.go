package services

import (
	"fmt"
	"strings"

	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/repository"
)

type BrandService interface {
	List() ([]domain.Brand, error)
	Get(brandID uint) (*domain.Brand, error)
	Create(input dto.BrandCreate) (*domain.Brand, error)
	Update(brandID uint, input dto.BrandUpdate) (*domain.Brand, error)
	SoftDelete(brandID uint) error
}

type brandService struct {
	repo repository.BrandRepository
}

func NewBrandService(repo repository.BrandRepository) BrandService {
	return &brandService{repo: repo}
}

func (s *brandService) List() ([]domain.Brand, error) {
	return s.repo.List()
}

func (s *brandService) Get(brandID uint) (*domain.Brand, error) {
	brand, err := s.repo.FindByID(brandID)
	if err != nil {
		return nil, fmt.Errorf("brand %w", ErrNotFound)
	}
	return brand, nil
}

func (s *brandService) Create(input dto.BrandCreate) (*domain.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("brand name is required")
	}
	if existing, err := s.repo.FindByName(name); err == nil && existing != nil {
		return nil, fmt.Errorf("brand name %w", ErrConflict)
	}

	status := true
	if input.Status != nil {
		status = *input.Status
	}
	brand := &domain.Brand{
		Name:        name,
		Description: input.Description,
		Status:      status,
	}
	if err := s.repo.Create(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) Update(brandID uint, input dto.BrandUpdate) (*domain.Brand, error) {
	brand, err := s.repo.FindByID(brandID)
	if err != nil {
		return nil, fmt.Errorf("brand %w", ErrNotFound)
	}

	if input.Name != nil && *input.Name != brand.Name {
		if existing, err := s.repo.FindByName(*input.Name); err == nil && existing != nil {
			return nil, fmt.Errorf("brand name %w", ErrConflict)
		}
		brand.Name = *input.Name
	}
	if input.Description != nil {
		brand.Description = *input.Description
	}
	if input.Status != nil {
		brand.Status = *input.Status
	}

	if err := s.repo.Save(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) SoftDelete(brandID uint) error {
	brand, err := s.repo.FindByID(brandID)
	if err != nil {
		return fmt.Errorf("brand %w", ErrNotFound)
	}
	brand.Status = false
	return s.repo.Save(brand)
}
