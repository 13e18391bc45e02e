package services

import (
	"storefront/models"
	"storefront/repository"

	"go.uber.org/zap"
)

type ProductService struct {
	cr     repository.CatalogRepository
	logger *zap.Logger
}

func NewProductService(catalog repository.CatalogRepository, logger *zap.Logger) ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ProductService{
		cr:     catalog,
		logger: logger,
	}
}

func (ps *ProductService) GetAllProducts() (products []models.Product) {
	products = ps.cr.All()
	return
}

func (ps *ProductService) GetProductById(prodId int) (p models.Product, err error) {
	p, exists := ps.cr.GetProduct(prodId)
	if !exists {
		ps.logger.Debug("product not in catalog", zap.Int("product_id", prodId))
		err = models.ErrNotFoundError
		return
	}
	return
}
