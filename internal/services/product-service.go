package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/interfaces"
	"github.com/cataloghq/catalog_service/internal/repository"
	log "github.com/sirupsen/logrus"
)

const (
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
)

type ProductService interface {
	List(viewerID uint) ([]domain.Product, error)
	Get(productID, viewerID uint) (*domain.Product, error)
	Create(input dto.ProductCreate, creatorID uint) (*domain.Product, error)
	Update(productID uint, input dto.ProductUpdate, userID uint) (*domain.Product, error)
	SoftDelete(productID, userID uint) error
	UploadImage(ctx context.Context, productID uint, filename string, data []byte, userID uint) (string, error)

	GetView(productID uint) (*domain.ProductView, error)
	ListViews() ([]domain.ProductView, error)
}

type productService struct {
	repo      repository.ProductRepository
	brandRepo repository.BrandRepository
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	viewRepo  repository.ProductViewRepository
	changeLog ChangeLogService
	notifier  NotificationService
	uploader  interfaces.Uploader
	producer  interfaces.ProducerHandler
}

func NewProductService(
	repo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	viewRepo repository.ProductViewRepository,
	changeLog ChangeLogService,
	notifier NotificationService,
	uploader interfaces.Uploader,
	producer interfaces.ProducerHandler,
) ProductService {
	return &productService{
		repo:      repo,
		brandRepo: brandRepo,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		viewRepo:  viewRepo,
		changeLog: changeLog,
		notifier:  notifier,
		uploader:  uploader,
		producer:  producer,
	}
}

func (s *productService) List(viewerID uint) ([]domain.Product, error) {
	products, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	if s.isAnonymous(viewerID) {
		for _, p := range products {
			if err := s.viewRepo.Increment(p.ID); err != nil {
				log.Warnf("increment view for product %d: %v", p.ID, err)
			}
		}
	}
	return products, nil
}

func (s *productService) Get(productID, viewerID uint) (*domain.Product, error) {
	product, err := s.repo.FindByID(productID)
	if err != nil {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}

	if s.isAnonymous(viewerID) {
		if err := s.viewRepo.Increment(product.ID); err != nil {
			log.Warnf("increment view for product %d: %v", product.ID, err)
		}
	}
	return product, nil
}

func (s *productService) Create(input dto.ProductCreate, creatorID uint) (*domain.Product, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" || input.BrandID == 0 {
		return nil, fmt.Errorf("sku, name and brand_id are required")
	}

	if existing, err := s.repo.FindByName(name); err == nil && existing != nil {
		return nil, fmt.Errorf("product name %w", ErrConflict)
	}
	if existing, err := s.repo.FindBySKU(sku); err == nil && existing != nil {
		return nil, fmt.Errorf("product sku %w", ErrConflict)
	}
	if _, err := s.brandRepo.FindByID(input.BrandID); err != nil {
		return nil, fmt.Errorf("brand %w", ErrNotFound)
	}
	if _, err := s.userRepo.FindUserById(creatorID); err != nil {
		return nil, fmt.Errorf("creator user %w", ErrNotFound)
	}

	status := true
	if input.Status != nil {
		status = *input.Status
	}

	product := &domain.Product{
		SKU:         sku,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		BrandID:     input.BrandID,
		Status:      status,
		CreatedBy:   creatorID,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(productID uint, input dto.ProductUpdate, userID uint) (*domain.Product, error) {
	product, err := s.repo.FindByID(productID)
	if err != nil {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}

	before := productSnapshot(product)

	if input.Name != nil && *input.Name != product.Name {
		if existing, err := s.repo.FindByName(*input.Name); err == nil && existing != nil {
			return nil, fmt.Errorf("product name %w", ErrConflict)
		}
		product.Name = *input.Name
	}
	if input.SKU != nil && *input.SKU != product.SKU {
		if existing, err := s.repo.FindBySKU(*input.SKU); err == nil && existing != nil {
			return nil, fmt.Errorf("product sku %w", ErrConflict)
		}
		product.SKU = *input.SKU
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.BrandID != nil {
		if _, err := s.brandRepo.FindByID(*input.BrandID); err != nil {
			return nil, fmt.Errorf("brand %w", ErrNotFound)
		}
		product.BrandID = *input.BrandID
	}
	if input.Status != nil {
		product.Status = *input.Status
	}

	if err := s.repo.Save(product); err != nil {
		return nil, err
	}

	s.auditAndNotify(product, before, productSnapshot(product), userID, ActionUpdateProduct)
	return product, nil
}

func (s *productService) SoftDelete(productID, userID uint) error {
	product, err := s.repo.FindByID(productID)
	if err != nil {
		return fmt.Errorf("product %w", ErrNotFound)
	}

	before := domain.Snapshot{"status": strPtr(strconv.FormatBool(product.Status))}
	product.Status = false
	if err := s.repo.Save(product); err != nil {
		return err
	}
	after := domain.Snapshot{"status": strPtr(strconv.FormatBool(product.Status))}

	s.auditAndNotify(product, before, after, userID, ActionDeleteProduct)
	return nil
}

func (s *productService) UploadImage(ctx context.Context, productID uint, filename string, data []byte, userID uint) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("uploader is not configured")
	}
	product, err := s.repo.FindByID(productID)
	if err != nil {
		return "", fmt.Errorf("product %w", ErrNotFound)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image file is required")
	}

	url, err := s.uploader.UploadBytes(ctx, "products", filename, data)
	if err != nil {
		return "", fmt.Errorf("upload image failed: %w", err)
	}

	before := domain.Snapshot{"image_url": strPtr(product.ImageURL)}
	product.ImageURL = url
	if err := s.repo.Save(product); err != nil {
		return "", err
	}
	after := domain.Snapshot{"image_url": strPtr(product.ImageURL)}

	s.auditAndNotify(product, before, after, userID, ActionUpdateProduct)
	return url, nil
}

// auditAndNotify runs after the product row is durable. Recorder,
// dispatcher and event publish failures are logged, never surfaced: the
// catalog state is already authoritative.
func (s *productService) auditAndNotify(product *domain.Product, before, after domain.Snapshot, userID uint, actionName string) {
	logs, err := s.changeLog.RecordProductChanges(product.ID, userID, actionName, before, after)
	if err != nil {
		log.Errorf("record product %d changes: %v", product.ID, err)
	}
	if len(logs) == 0 {
		return
	}

	s.notifier.NotifyProductChange(logs)

	if s.producer != nil {
		payload := fmt.Sprintf(
			`{"product_id":%d,"changed_by":%d,"action":"%s","fields":%d}`,
			product.ID, userID, actionName, len(logs),
		)
		if err := s.producer.PublishMessage([]byte("catalog.product_changed"), []byte(payload)); err != nil {
			log.Warnf("publish product change event: %v", err)
		}
	}
}

func (s *productService) isAnonymous(viewerID uint) bool {
	role, err := s.roleRepo.GetRoleByUserID(viewerID)
	if err != nil || role == nil {
		return false
	}
	return role.Name == domain.RoleAnonymous
}

func (s *productService) GetView(productID uint) (*domain.ProductView, error) {
	view, err := s.viewRepo.FindByProductID(productID)
	if err != nil {
		return nil, fmt.Errorf("product view %w", ErrNotFound)
	}
	return view, nil
}

func (s *productService) ListViews() ([]domain.ProductView, error) {
	return s.viewRepo.List()
}

func productSnapshot(p *domain.Product) domain.Snapshot {
	return domain.Snapshot{
		"name":        strPtr(p.Name),
		"sku":         strPtr(p.SKU),
		"description": strPtr(p.Description),
		"price":       strPtr(strconv.FormatFloat(p.Price, 'f', 2, 64)),
		"brand_id":    strPtr(strconv.FormatUint(uint64(p.BrandID), 10)),
		"status":      strPtr(strconv.FormatBool(p.Status)),
	}
}

func strPtr(s string) *string {
	return &s
}
