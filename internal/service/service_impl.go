package service

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/jaehokim/marketplace-service/config"
	"github.com/jaehokim/marketplace-service/internal/domain"
	"github.com/jaehokim/marketplace-service/internal/dto"
	"github.com/jaehokim/marketplace-service/internal/imaging"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/filestore"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/inference"
	"github.com/jaehokim/marketplace-service/internal/infrastructure/message-queue/kafka"
	"github.com/jaehokim/marketplace-service/internal/repository"
	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

type ProductServiceImpl struct {
	repo       repository.ProductRepository
	fileStore  filestore.FileStore
	classifier inference.Classifier
	producer   kafka.Producer
	config     config.Config
}

func CreateProductService(repo repository.ProductRepository, fileStore filestore.FileStore, classifier inference.Classifier, producer kafka.Producer, config config.Config) ProductService {
	return &ProductServiceImpl{repo: repo, fileStore: fileStore, classifier: classifier, producer: producer, config: config}
}

// AddProduct runs the classification pipeline: validate, load the stored
// image, decode, classify, then persist. The row is inserted only after the
// label is known, so a product is never readable in an unclassified state.
func (s *ProductServiceImpl) AddProduct(ctx context.Context, data dto.ProductRequest) (res dto.ProductResponse, err error) {
	if data.Name == "" || data.Description == "" || data.Seller == "" || data.ImageURL == "" || data.Price <= 0 {
		return res, errs.ErrValidation
	}

	imageBytes, err := s.fileStore.Read(ctx, data.ImageURL)
	if err != nil {
		return
	}

	decoded, err := imaging.Decode(imageBytes)
	if err != nil {
		return
	}

	label, err := s.classifier.Classify(ctx, decoded)
	if err != nil {
		return
	}

	product := domain.Product{
		ID:          ulid.Make().String(),
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Seller:      data.Seller,
		ImageURL:    data.ImageURL,
		Label:       label,
		SoldOut:     false,
		CreatedAt:   time.Now().UnixMilli(),
	}

	err = s.repo.AddProduct(ctx, product)
	if err != nil {
		return
	}

	s.publishEvent(ctx, "product_created", toProductResponse(product))

	return toProductResponse(product), nil
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context) (res []dto.ProductResponse, err error) {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return
	}

	res = make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		res = append(res, toProductResponse(product))
	}

	return
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (res dto.ProductResponse, err error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	return toProductResponse(product), nil
}

// GetRecommendations returns every product carrying the same label as the
// source product, excluding the source itself. Sold-out items stay in the
// result; there is no ranking or limit.
func (s *ProductServiceImpl) GetRecommendations(ctx context.Context, id string) (res []dto.ProductResponse, err error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	res = make([]dto.ProductResponse, 0)
	if product.Label == "" {
		// Rows created through the pipeline always carry a label; an
		// unlabeled row yields no matches rather than an error.
		return res, nil
	}

	matches, err := s.repo.GetProductsByLabel(ctx, product.Label, product.ID)
	if err != nil {
		return nil, err
	}

	for _, match := range matches {
		res = append(res, toProductResponse(match))
	}

	return
}

// PurchaseProduct flips the sold-out flag. The update is unconditional, so
// purchasing an already sold-out product succeeds without changing anything.
func (s *ProductServiceImpl) PurchaseProduct(ctx context.Context, id string) (err error) {
	err = s.repo.MarkProductSoldOut(ctx, id)
	if err != nil {
		return
	}

	s.publishEvent(ctx, "product_sold_out", dto.ProductResponse{ID: id, SoldOut: true})

	return
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	err = s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return
	}

	s.publishEvent(ctx, "product_deleted", dto.ProductResponse{ID: id})

	return
}

func (s *ProductServiceImpl) UploadImage(ctx context.Context, filename string, file io.Reader) (res dto.ImageUploadResponse, err error) {
	location, err := s.fileStore.Write(ctx, filename, file)
	if err != nil {
		return
	}

	res.ImageURL = location
	return
}

func (s *ProductServiceImpl) GetBanners(ctx context.Context) (res []dto.BannerResponse, err error) {
	banners, err := s.repo.GetBanners(ctx)
	if err != nil {
		return
	}

	res = make([]dto.BannerResponse, 0, len(banners))
	for _, banner := range banners {
		res = append(res, dto.BannerResponse{ID: banner.ID, ImageURL: banner.ImageURL, Href: banner.Href})
	}

	return
}

// publishEvent is best-effort: the row is already durable by the time an
// event goes out, so a broker outage must not turn a completed mutation
// into an error response. Delivery runs off the request path so the retry
// backoff never adds latency to a finished mutation.
func (s *ProductServiceImpl) publishEvent(ctx context.Context, eventType string, data interface{}) {
	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "publishEvent").Msg("")
		return
	}

	logger := log.Ctx(ctx).With().Str("event_type", eventType).Str("component", "publishEvent").Logger()

	go func() {
		maxRetries := 3
		for i := 0; i < maxRetries; i++ {
			err := s.producer.Publish(jsonMsg)
			if err == nil {
				return
			}
			logger.Error().Err(err).Msg("")
			time.Sleep(time.Second * time.Duration(i+1))
		}

		logger.Error().Msg("dropping event after retries")
	}()
}

func toProductResponse(product domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Seller:      product.Seller,
		ImageURL:    product.ImageURL,
		Label:       product.Label,
		SoldOut:     product.SoldOut,
		CreatedAt:   product.CreatedAt,
	}
}
