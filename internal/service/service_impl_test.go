package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jaehokim/marketplace-service/config"
	"github.com/jaehokim/marketplace-service/internal/domain"
	"github.com/jaehokim/marketplace-service/internal/dto"
	"github.com/jaehokim/marketplace-service/internal/imaging"
	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	products map[string]domain.Product
	banners  []domain.Banner
	addCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[string]domain.Product{}}
}

func (r *fakeRepo) AddProduct(ctx context.Context, data domain.Product) error {
	r.addCalls++
	r.products[data.ID] = data
	return nil
}

func (r *fakeRepo) GetProducts(ctx context.Context) ([]domain.Product, error) {
	data := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		data = append(data, product)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].CreatedAt > data[j].CreatedAt })
	return data, nil
}

func (r *fakeRepo) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, errs.ErrNotFound
	}
	return product, nil
}

func (r *fakeRepo) GetProductsByLabel(ctx context.Context, label string, excludedID string) ([]domain.Product, error) {
	var data []domain.Product
	for _, product := range r.products {
		if product.Label == label && product.ID != excludedID {
			data = append(data, product)
		}
	}
	return data, nil
}

func (r *fakeRepo) MarkProductSoldOut(ctx context.Context, id string) error {
	product, ok := r.products[id]
	if !ok {
		return errs.ErrNotFound
	}
	product.SoldOut = true
	r.products[id] = product
	return nil
}

func (r *fakeRepo) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeRepo) GetBanners(ctx context.Context) ([]domain.Banner, error) {
	return r.banners, nil
}

type fakeFileStore struct {
	files map[string][]byte
}

func (s *fakeFileStore) Read(ctx context.Context, location string) ([]byte, error) {
	data, ok := s.files[location]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return data, nil
}

func (s *fakeFileStore) Write(ctx context.Context, suggestedName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errs.ErrInternalServer
	}
	location := "uploads/" + suggestedName
	s.files[location] = data
	return location, nil
}

type fakeClassifier struct {
	labels []string
	err    error
	calls  int
}

func (c *fakeClassifier) Classify(ctx context.Context, img *imaging.Image) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	label := c.labels[0]
	if len(c.labels) > 1 {
		c.labels = c.labels[1:]
	}
	return label, nil
}

type fakeProducer struct {
	mu        sync.Mutex
	err       error
	published [][]byte
}

func (p *fakeProducer) Publish(value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, value)
	return nil
}

func (p *fakeProducer) PublishWithKey(key string, value []byte) error {
	return p.Publish(value)
}

func (p *fakeProducer) publishedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

type fixture struct {
	svc        ProductService
	repo       *fakeRepo
	store      *fakeFileStore
	classifier *fakeClassifier
	producer   *fakeProducer
}

func newFixture(t *testing.T, labels ...string) *fixture {
	f := &fixture{
		repo:       newFakeRepo(),
		store:      &fakeFileStore{files: map[string][]byte{"uploads/shoe.png": pngBytes(t)}},
		classifier: &fakeClassifier{labels: labels},
		producer:   &fakeProducer{},
	}
	f.svc = CreateProductService(f.repo, f.store, f.classifier, f.producer, config.Config{})
	return f
}

func validRequest() dto.ProductRequest {
	return dto.ProductRequest{
		Name:        "running shoes",
		Description: "barely worn",
		Price:       45000,
		Seller:      "jaeho",
		ImageURL:    "uploads/shoe.png",
	}
}

func (f *fixture) createProduct(t *testing.T, req dto.ProductRequest) dto.ProductResponse {
	t.Helper()
	res, err := f.svc.AddProduct(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestAddProduct_PersistsClassifiedProduct(t *testing.T) {
	f := newFixture(t, "shoe")

	res := f.createProduct(t, validRequest())

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "shoe", res.Label)
	assert.False(t, res.SoldOut)
	assert.Equal(t, 1, f.repo.addCalls)

	stored, err := f.repo.GetProductByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "shoe", stored.Label)
	assert.Equal(t, "running shoes", stored.Name)
	assert.NotZero(t, stored.CreatedAt)

	assert.Eventually(t, func() bool { return f.producer.publishedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestAddProduct_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(req *dto.ProductRequest)
	}{
		{name: "missing name", mutate: func(req *dto.ProductRequest) { req.Name = "" }},
		{name: "missing description", mutate: func(req *dto.ProductRequest) { req.Description = "" }},
		{name: "missing seller", mutate: func(req *dto.ProductRequest) { req.Seller = "" }},
		{name: "missing image location", mutate: func(req *dto.ProductRequest) { req.ImageURL = "" }},
		{name: "zero price", mutate: func(req *dto.ProductRequest) { req.Price = 0 }},
		{name: "negative price", mutate: func(req *dto.ProductRequest) { req.Price = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, "shoe")
			req := validRequest()
			tc.mutate(&req)

			_, err := f.svc.AddProduct(context.Background(), req)

			assert.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, 0, f.repo.addCalls)
			assert.Equal(t, 0, f.classifier.calls)
		})
	}
}

func TestAddProduct_ClassificationFailureCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.classifier.err = errs.ErrClassification

	_, err := f.svc.AddProduct(context.Background(), validRequest())

	assert.ErrorIs(t, err, errs.ErrClassification)
	assert.Equal(t, 0, f.repo.addCalls)
	assert.Equal(t, 0, f.producer.publishedCount())
}

func TestAddProduct_BrokerOutageDoesNotDelayCreation(t *testing.T) {
	f := newFixture(t, "shoe")
	f.producer.err = errs.ErrInternalServer

	start := time.Now()
	res, err := f.svc.AddProduct(context.Background(), validRequest())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.addCalls)
	// Event delivery retries run off the request path; the creation must
	// return well before the retry backoff would have elapsed.
	assert.Less(t, elapsed, 3*time.Second)

	_, err = f.repo.GetProductByID(context.Background(), res.ID)
	assert.NoError(t, err)
}

func TestAddProduct_UndecodableImageCreatesNothing(t *testing.T) {
	f := newFixture(t, "shoe")
	f.store.files["uploads/shoe.png"] = []byte("not pixels")

	_, err := f.svc.AddProduct(context.Background(), validRequest())

	assert.ErrorIs(t, err, errs.ErrImageDecode)
	assert.Equal(t, 0, f.repo.addCalls)
	assert.Equal(t, 0, f.classifier.calls)
}

func TestAddProduct_MissingImageCreatesNothing(t *testing.T) {
	f := newFixture(t, "shoe")
	req := validRequest()
	req.ImageURL = "uploads/gone.png"

	_, err := f.svc.AddProduct(context.Background(), req)

	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, 0, f.repo.addCalls)
}

func TestGetRecommendations_MatchesLabelExcludingSelf(t *testing.T) {
	f := newFixture(t, "shoe", "shoe", "bag")

	a := f.createProduct(t, validRequest())
	b := f.createProduct(t, validRequest())
	c := f.createProduct(t, validRequest())

	recsA, err := f.svc.GetRecommendations(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, recsA, 1)
	assert.Equal(t, b.ID, recsA[0].ID)
	assert.Equal(t, "shoe", recsA[0].Label)

	recsC, err := f.svc.GetRecommendations(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, recsC)
}

func TestGetRecommendations_UnknownProduct(t *testing.T) {
	f := newFixture(t, "shoe")

	_, err := f.svc.GetRecommendations(context.Background(), "nope")

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetRecommendations_UnlabeledProductYieldsNoMatches(t *testing.T) {
	f := newFixture(t)
	f.repo.products["legacy"] = domain.Product{ID: "legacy", Name: "pre-pipeline row"}

	recs, err := f.svc.GetRecommendations(context.Background(), "legacy")

	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPurchaseProduct_IsIdempotent(t *testing.T) {
	f := newFixture(t, "shoe")
	created := f.createProduct(t, validRequest())

	require.NoError(t, f.svc.PurchaseProduct(context.Background(), created.ID))

	stored, err := f.repo.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.SoldOut)

	// Re-purchasing a sold-out product is a no-op success.
	require.NoError(t, f.svc.PurchaseProduct(context.Background(), created.ID))

	stored, err = f.repo.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.SoldOut)
}

func TestPurchaseProduct_UnknownProduct(t *testing.T) {
	f := newFixture(t, "shoe")

	err := f.svc.PurchaseProduct(context.Background(), "nope")

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteProduct_RemovesProductCompletely(t *testing.T) {
	f := newFixture(t, "shoe")
	created := f.createProduct(t, validRequest())

	require.NoError(t, f.svc.DeleteProduct(context.Background(), created.ID))

	_, err := f.svc.GetProductByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.svc.GetRecommendations(context.Background(), created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteProduct_UnknownProduct(t *testing.T) {
	f := newFixture(t, "shoe")

	err := f.svc.DeleteProduct(context.Background(), "nope")

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetProducts_NewestFirst(t *testing.T) {
	f := newFixture(t)
	f.repo.products["a"] = domain.Product{ID: "a", Label: "shoe", CreatedAt: 100}
	f.repo.products["b"] = domain.Product{ID: "b", Label: "bag", CreatedAt: 300}
	f.repo.products["c"] = domain.Product{ID: "c", Label: "hat", CreatedAt: 200}

	products, err := f.svc.GetProducts(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 3)
	assert.Equal(t, "b", products[0].ID)
	assert.Equal(t, "c", products[1].ID)
	assert.Equal(t, "a", products[2].ID)
}

func TestUploadImage_ReturnsLocation(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.UploadImage(context.Background(), "bag.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "uploads/bag.png", res.ImageURL)

	stored, err := f.store.Read(context.Background(), res.ImageURL)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
}

func TestGetBanners(t *testing.T) {
	f := newFixture(t)
	f.repo.banners = []domain.Banner{{ID: 1, ImageURL: "banners/sale.png", Href: "https://example.com/sale"}}

	banners, err := f.svc.GetBanners(context.Background())
	require.NoError(t, err)

	require.Len(t, banners, 1)
	assert.Equal(t, "banners/sale.png", banners[0].ImageURL)
}
