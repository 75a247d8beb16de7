package services

import (
	"context"
	"fmt"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"go.uber.org/zap"
)

// DefaultLowStockThreshold is used by SearchLowStock when the caller supplies none.
const DefaultLowStockThreshold = 10

// ProductService handles business logic related to products.
//
// UpdateProduct reads, merges and writes without locking, so two concurrent
// updates of the same product resolve as last write wins.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewProductService creates a new ProductService. A nil publisher disables
// event publication and a nil logger discards logs.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log *zap.Logger) *ProductService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetProduct retrieves a single product by its ID. A missing product is
// reported through found, not through err.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (product *models.Product, found bool, err error) {
	return s.repo.FindByID(ctx, id)
}

// CreateProduct stores candidate as a new product. Any ID on the candidate is
// ignored; the store assigns one. Field constraints are the caller's concern.
func (s *ProductService) CreateProduct(ctx context.Context, candidate models.Product) (*models.Product, error) {
	candidate.ID = 0
	created, err := s.repo.Save(ctx, &candidate)
	if err != nil {
		return nil, err
	}
	s.publish(models.ProductCreated, created.ID, created)
	return created, nil
}

// UpdateProduct replaces name, description, price and stock of an existing
// product with the values from patch. The stored ID is kept.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, patch models.Product) (*models.Product, error) {
	existing, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}

	existing.Name = patch.Name
	existing.Description = patch.Description
	existing.Price = patch.Price
	existing.Stock = patch.Stock

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.publish(models.ProductUpdated, updated.ID, updated)
	return updated, nil
}

// DeleteProduct permanently removes an existing product.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish(models.ProductDeleted, id, nil)
	return nil
}

// SearchByName returns products whose name contains name, ignoring case.
func (s *ProductService) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	return s.repo.FindByNameContainingIgnoreCase(ctx, name)
}

// SearchLowStock returns products with stock strictly below threshold.
// A nil threshold selects DefaultLowStockThreshold.
func (s *ProductService) SearchLowStock(ctx context.Context, threshold *int) ([]models.Product, error) {
	limit := DefaultLowStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	return s.repo.FindByStockLessThan(ctx, limit)
}

// publish emits a lifecycle event. A failed publish never fails the operation
// that already reached the store.
func (s *ProductService) publish(eventType string, id uint, product *models.Product) {
	event := models.ProductEvent{
		Type:       eventType,
		ProductID:  id,
		Product:    product,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishEvent(eventType, event); err != nil {
		s.log.Warn("Failed to publish product event",
			zap.String("event", eventType),
			zap.Uint("product_id", id),
			zap.Error(err))
		return
	}
	s.log.Debug("Published product event",
		zap.String("event", eventType),
		zap.Uint("product_id", id))
}
