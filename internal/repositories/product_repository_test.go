package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteRepo opens a private in-memory SQLite database for one test.
func newSQLiteRepo(t *testing.T) repositories.ProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return repositories.NewGORMProductRepository(db)
}

func newMemoryRepo(t *testing.T) repositories.ProductRepository {
	return repositories.NewMemoryProductRepository()
}

func TestGORMProductRepository(t *testing.T) {
	runRepositoryContract(t, newSQLiteRepo)
}

func TestMemoryProductRepository(t *testing.T) {
	runRepositoryContract(t, newMemoryRepo)
}

func seed(t *testing.T, repo repositories.ProductRepository, products ...models.Product) []models.Product {
	t.Helper()
	saved := make([]models.Product, 0, len(products))
	for i := range products {
		p, err := repo.Save(context.Background(), &products[i])
		require.NoError(t, err)
		saved = append(saved, *p)
	}
	return saved
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.ProductRepository) {
	ctx := context.Background()

	t.Run("SaveAssignsID", func(t *testing.T) {
		repo := newRepo(t)
		input := &models.Product{Name: "Widget", Description: "blue", Price: 9.99, Stock: 5}

		saved, err := repo.Save(ctx, input)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.Zero(t, input.ID, "input must not be mutated")
		assert.Equal(t, "Widget", saved.Name)
		assert.Equal(t, "blue", saved.Description)
		assert.Equal(t, 9.99, saved.Price)
		assert.Equal(t, 5, saved.Stock)

		other, err := repo.Save(ctx, &models.Product{Name: "Gadget", Price: 1, Stock: 1})
		require.NoError(t, err)
		assert.NotEqual(t, saved.ID, other.ID)
	})

	t.Run("FindByID", func(t *testing.T) {
		repo := newRepo(t)
		saved := seed(t, repo, models.Product{Name: "Widget", Price: 9.99, Stock: 5})[0]

		got, found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, saved, *got)

		got, found, err = repo.FindByID(ctx, saved.ID+100)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("SaveOverwritesExisting", func(t *testing.T) {
		repo := newRepo(t)
		saved := seed(t, repo, models.Product{Name: "Widget", Description: "old", Price: 9.99, Stock: 5})[0]

		saved.Name = "Widget Pro"
		saved.Description = ""
		saved.Price = 0
		saved.Stock = 0
		updated, err := repo.Save(ctx, &saved)
		require.NoError(t, err)
		assert.Equal(t, saved, *updated)

		got, found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, saved, *got)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("FindAll", func(t *testing.T) {
		repo := newRepo(t)
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		seed(t, repo,
			models.Product{Name: "A", Price: 1, Stock: 1},
			models.Product{Name: "B", Price: 2, Stock: 2},
			models.Product{Name: "C", Price: 3, Stock: 3},
		)
		all, err = repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, names(all))
	})

	t.Run("ExistsAndDelete", func(t *testing.T) {
		repo := newRepo(t)
		saved := seed(t, repo, models.Product{Name: "Widget", Price: 9.99, Stock: 5})[0]

		exists, err := repo.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, repo.DeleteByID(ctx, saved.ID))

		exists, err = repo.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, found)

		// deleting again is a silent no-op at this layer
		assert.NoError(t, repo.DeleteByID(ctx, saved.ID))
	})

	t.Run("FindByNameContainingIgnoreCase", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			models.Product{Name: "Widget", Price: 1, Stock: 1},
			models.Product{Name: "Gadget", Price: 1, Stock: 1},
			models.Product{Name: "Mega WIDGET", Price: 1, Stock: 1},
			models.Product{Name: "100% cotton", Price: 1, Stock: 1},
			models.Product{Name: "snake_case", Price: 1, Stock: 1},
		)

		for _, query := range []string{"wid", "WID", "Wid", "wId"} {
			got, err := repo.FindByNameContainingIgnoreCase(ctx, query)
			require.NoError(t, err)
			assert.Equal(t, []string{"Widget", "Mega WIDGET"}, names(got), query)
		}

		got, err := repo.FindByNameContainingIgnoreCase(ctx, "dget")
		require.NoError(t, err)
		assert.Equal(t, []string{"Widget", "Gadget", "Mega WIDGET"}, names(got))

		got, err = repo.FindByNameContainingIgnoreCase(ctx, "%")
		require.NoError(t, err)
		assert.Equal(t, []string{"100% cotton"}, names(got))

		got, err = repo.FindByNameContainingIgnoreCase(ctx, "e_c")
		require.NoError(t, err)
		assert.Equal(t, []string{"snake_case"}, names(got))

		got, err = repo.FindByNameContainingIgnoreCase(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = repo.FindByNameContainingIgnoreCase(ctx, "")
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})

	t.Run("FindByStockLessThan", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			models.Product{Name: "Empty", Price: 1, Stock: 0},
			models.Product{Name: "Five", Price: 1, Stock: 5},
			models.Product{Name: "Ten", Price: 1, Stock: 10},
			models.Product{Name: "Plenty", Price: 1, Stock: 50},
		)

		got, err := repo.FindByStockLessThan(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Empty", "Five"}, names(got))

		got, err = repo.FindByStockLessThan(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"Empty"}, names(got))

		got, err = repo.FindByStockLessThan(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryProductRepository_IDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryProductRepository()

	first, err := repo.Save(ctx, &models.Product{Name: "A"})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByID(ctx, first.ID))

	second, err := repo.Save(ctx, &models.Product{Name: "B"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	// an explicit ID moves the counter past it
	_, err = repo.Save(ctx, &models.Product{ID: 40, Name: "C"})
	require.NoError(t, err)
	third, err := repo.Save(ctx, &models.Product{Name: "D"})
	require.NoError(t, err)
	assert.Equal(t, uint(41), third.ID)
}
