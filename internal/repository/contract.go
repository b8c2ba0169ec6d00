package repository

import (
	"context"

	"github.com/jaehokim/marketplace-service/internal/domain"
)

type ProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (err error)
	GetProducts(ctx context.Context) (data []domain.Product, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	GetProductsByLabel(ctx context.Context, label string, excludedID string) (data []domain.Product, err error)
	MarkProductSoldOut(ctx context.Context, id string) (err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	GetBanners(ctx context.Context) (data []domain.Banner, err error)
}
