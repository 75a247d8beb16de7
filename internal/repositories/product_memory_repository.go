package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"catalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// IDs are assigned from a monotonic counter and never reused.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// FindAll returns all products.
func (r *MemoryProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

// FindByID returns a product by its ID.
func (r *MemoryProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, false, nil
	}
	return &product, true, nil
}

// Save adds a new product or replaces an existing one.
func (r *MemoryProductRepository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *product
	if saved.ID == 0 {
		saved.ID = r.nextID
	}
	if saved.ID >= r.nextID {
		r.nextID = saved.ID + 1
	}
	r.products[saved.ID] = saved
	return &saved, nil
}

// ExistsByID reports whether the product is stored.
func (r *MemoryProductRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// DeleteByID removes a product by its ID.
func (r *MemoryProductRepository) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

// FindByNameContainingIgnoreCase returns products whose name contains name, ignoring case.
func (r *MemoryProductRepository) FindByNameContainingIgnoreCase(ctx context.Context, name string) ([]models.Product, error) {
	needle := strings.ToLower(name)
	return r.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// FindByStockLessThan returns products with stock below threshold.
func (r *MemoryProductRepository) FindByStockLessThan(ctx context.Context, threshold int) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Stock < threshold
	}), nil
}

func (r *MemoryProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList
}
