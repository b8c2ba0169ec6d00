package repository

import (
	"context"
	"database/sql"

	"github.com/jaehokim/marketplace-service/internal/domain"
	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type ProductRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewRepository(db *sqlx.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (err error) {
	_, err = r.db.NamedExecContext(ctx, "INSERT INTO products(id, name, description, price, seller, image_url, label, sold_out, created_at) VALUES (:id, :name, :description, :price, :seller, :image_url, :label, :sold_out, :created_at)", data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) GetProducts(ctx context.Context) (data []domain.Product, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM products ORDER BY created_at DESC")
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM products WHERE id = $1", id)
	err = row.StructScan(&product)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		if err == sql.ErrNoRows {
			return product, errs.ErrNotFound
		}
		return product, errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) GetProductsByLabel(ctx context.Context, label string, excludedID string) (data []domain.Product, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM products WHERE label = $1 AND id <> $2", label, excludedID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductsByLabel").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) MarkProductSoldOut(ctx context.Context, id string) (err error) {
	result, err := r.db.ExecContext(ctx, "UPDATE products SET sold_out = TRUE WHERE id = $1", id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "MarkProductSoldOut").Msg("")
		return errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "MarkProductSoldOut").Msg("")
		return errs.ErrInternalServer
	}

	if affected == 0 {
		return errs.ErrNotFound
	}

	return
}

func (r *ProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return errs.ErrInternalServer
	}

	if affected == 0 {
		return errs.ErrNotFound
	}

	return
}

func (r *ProductRepositoryImpl) GetBanners(ctx context.Context) (data []domain.Banner, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM banners")
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetBanners").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}
