package service

import (
	"context"
	"fmt"
	"strings"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
	"berrypay/internal/model"
	"berrypay/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const msgProductNotFound = "Produto não encontrado"

type ProductService interface {
	Create(ctx context.Context, userID string, req *dto.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, userID, productID string, req *dto.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, userID, productID string) error
	Get(ctx context.Context, userID, productID string) (*model.Product, error)
	List(ctx context.Context, userID string) ([]*model.Product, error)
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateProductRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name", "Informe o nome do produto")
	}
	if req.Price <= 0 {
		return nil, apperror.Validation("price", "O preço deve ser maior que zero")
	}

	product := &model.Product{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		DeliveryURL:   req.DeliveryURL,
		WhatsappURL:   req.WhatsappURL,
		DeliveryFiles: datatypes.NewJSONType(deliveryFiles(req.DeliveryFiles)),
		Active:        true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, userID, productID string, req *dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindOwned(ctx, userID, productID)
	if err != nil {
		return nil, orNotFound(err, msgProductNotFound)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name", "Informe o nome do produto")
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperror.Validation("price", "O preço deve ser maior que zero")
		}
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.DeliveryURL != nil {
		product.DeliveryURL = *req.DeliveryURL
	}
	if req.WhatsappURL != nil {
		product.WhatsappURL = *req.WhatsappURL
	}
	if req.DeliveryFiles != nil {
		product.DeliveryFiles = datatypes.NewJSONType(deliveryFiles(*req.DeliveryFiles))
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// Delete removes the product. Checkouts referencing it are left in place;
// the public page stops resolving them.
func (s *productServiceImpl) Delete(ctx context.Context, userID, productID string) error {
	if err := s.productRepo.Delete(ctx, userID, productID); err != nil {
		return orNotFound(err, msgProductNotFound)
	}
	return nil
}

func (s *productServiceImpl) Get(ctx context.Context, userID, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindOwned(ctx, userID, productID)
	if err != nil {
		return nil, orNotFound(err, msgProductNotFound)
	}
	return product, nil
}

func (s *productServiceImpl) List(ctx context.Context, userID string) ([]*model.Product, error) {
	products, err := s.productRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*model.Product{}
	}
	return products, nil
}

func deliveryFiles(files []model.DeliveryFile) []model.DeliveryFile {
	if files == nil {
		return []model.DeliveryFile{}
	}
	return files
}
