package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"veggie-shop/metrics"
	"veggie-shop/models"
	"veggie-shop/storage"
)

const (
	productCachePrefix = "products_list_"
	productCacheTTL    = 5 * time.Minute
)

var ErrUploadsDisabled = errors.New("image uploads are not configured")

// ImageUploader stores a product image and returns its public URL.
type ImageUploader interface {
	UploadProductImage(ctx context.Context, productID string, file io.Reader) (string, error)
}

type ProductService struct {
	store    storage.ProductStore
	cache    *redis.Client
	uploader ImageUploader
}

// NewProductService builds the catalog service. cache and uploader may be nil.
func NewProductService(store storage.ProductStore, cache *redis.Client, uploader ImageUploader) *ProductService {
	return &ProductService{store: store, cache: cache, uploader: uploader}
}

func productCacheKey(category string) string {
	if category == "" {
		return productCachePrefix + "all"
	}
	return productCachePrefix + "category_" + category
}

// InvalidateCache drops every cached product listing.
func (s *ProductService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, productCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		s.cache.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("product cache invalidation incomplete")
	}
}

// List returns the active catalog, optionally narrowed to one category.
func (s *ProductService) List(ctx context.Context, category string) ([]models.Product, error) {
	key := productCacheKey(category)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var products []models.Product
			if err := json.Unmarshal(cached, &products); err == nil {
				metrics.ProductCache.WithLabelValues("hit").Inc()
				return products, nil
			}
		}
		metrics.ProductCache.WithLabelValues("miss").Inc()
	}

	var (
		products []models.Product
		err      error
	)
	if category == "" {
		products, err = s.store.GetProducts(ctx)
	} else {
		products, err = s.store.GetProductsByCategory(ctx, category)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			s.cache.Set(ctx, key, data, productCacheTTL)
		}
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	v := NewValidationError()
	if !req.Price.IsPositive() {
		v.Add("price", "Price must be greater than 0")
	}
	if req.OriginalPrice != nil && req.OriginalPrice.LessThan(req.Price) {
		v.Add("originalPrice", "Original price cannot be lower than price")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	product, err := s.store.CreateProduct(ctx, req.ToProduct())
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.InvalidateCache(ctx)

	log.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	v := NewValidationError()
	if update.Price != nil && !update.Price.IsPositive() {
		v.Add("price", "Price must be greater than 0")
	}
	if update.Stock != nil && *update.Stock < 0 {
		v.Add("stock", "Stock cannot be negative")
	}
	if update.FreshnessDays != nil && *update.FreshnessDays < 0 {
		v.Add("freshnessDays", "Freshness days cannot be negative")
	}
	if update.Name != nil && *update.Name == "" {
		v.Add("name", "Name is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	product, err := s.store.UpdateProduct(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx)
	return product, nil
}

// Delete hides the product from the catalog; order history keeps referring to it.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.InvalidateCache(ctx)

	log.Info().Str("product_id", id).Msg("product deactivated")
	return nil
}

func (s *ProductService) UploadImage(ctx context.Context, id string, file io.Reader) (*models.Product, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.uploader.UploadProductImage(ctx, id, file)
	if err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}
	return s.Update(ctx, id, models.ProductUpdate{ImageURL: &url})
}
