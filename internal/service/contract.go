package service

import (
	"context"
	"io"

	"github.com/jaehokim/marketplace-service/internal/dto"
)

type ProductService interface {
	AddProduct(ctx context.Context, data dto.ProductRequest) (res dto.ProductResponse, err error)
	GetProducts(ctx context.Context) (res []dto.ProductResponse, err error)
	GetProductByID(ctx context.Context, id string) (res dto.ProductResponse, err error)
	GetRecommendations(ctx context.Context, id string) (res []dto.ProductResponse, err error)
	PurchaseProduct(ctx context.Context, id string) (err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	UploadImage(ctx context.Context, filename string, file io.Reader) (res dto.ImageUploadResponse, err error)
	GetBanners(ctx context.Context) (res []dto.BannerResponse, err error)
}
