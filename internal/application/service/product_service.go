package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"github.com/sangkips/atelier-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput represents the create/update product input. On update nil
// fields are left unchanged.
type ProductInput struct {
	Name          *string
	Code          *string
	Category      *string
	Material      *string
	Karat         *int
	WeightGrams   *decimal.Decimal
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	Stock         *int
	ImageURL      *string
	IsActive      *bool
	Description   *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}

	code := ""
	if input.Code != nil {
		code = strings.TrimSpace(*input.Code)
	}
	if code == "" {
		code = utils.GenerateReferenceNo("PRD")
	}
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	product := &entity.Product{Code: code, IsActive: true}
	applyProductInput(product, input)
	if errs := validateProduct(product); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	product.Slug, err = s.uniqueSlug(ctx, product.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.Result[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.New(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewResult(products, pag), nil
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && strings.TrimSpace(*input.Code) != "" && *input.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = strings.TrimSpace(*input.Code)
	}

	oldName := product.Name
	applyProductInput(product, input)
	if errs := validateProduct(product); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if product.Name != oldName {
		product.Slug, err = s.uniqueSlug(ctx, product.Name, product.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft-deletes a product. Sales keep their line snapshots.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) uniqueSlug(ctx context.Context, name string, self uuid.UUID) (string, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		slug = "product"
	}
	existing, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if existing == nil || existing.ID == self {
		return slug, nil
	}
	return slug + "-" + strings.ToLower(utils.ShortID()), nil
}

func applyProductInput(p *entity.Product, in *ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Material != nil {
		p.Material = strings.TrimSpace(*in.Material)
	}
	if in.Karat != nil {
		p.Karat = in.Karat
	}
	if in.WeightGrams != nil {
		p.WeightGrams = *in.WeightGrams
	}
	if in.PurchasePrice != nil {
		p.PurchasePrice = in.PurchasePrice.Round(2)
	}
	if in.SalePrice != nil {
		p.SalePrice = in.SalePrice.Round(2)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Description != nil {
		p.Description = in.Description
	}
}

func validateProduct(p *entity.Product) []apperror.FieldError {
	var errs []apperror.FieldError
	if p.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if p.SalePrice.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "salePrice", Message: "sale price cannot be negative"})
	}
	if p.PurchasePrice.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "purchasePrice", Message: "purchase price cannot be negative"})
	}
	if p.WeightGrams.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "weightGrams", Message: "weight cannot be negative"})
	}
	if p.Stock < 0 {
		errs = append(errs, apperror.FieldError{Field: "stock", Message: "stock cannot be negative"})
	}
	return errs
}
