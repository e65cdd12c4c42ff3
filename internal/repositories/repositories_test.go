package repositories_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"menucart/internal/models"
	"menucart/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.MenuItem{}, &models.Order{}, &models.Staff{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type repos struct {
	menu   repositories.MenuRepository
	orders repositories.OrderRepository
	staff  repositories.StaffRepository
}

func implementations(t *testing.T) map[string]func(t *testing.T) repos {
	return map[string]func(t *testing.T) repos{
		"mock": func(t *testing.T) repos {
			return repos{
				menu:   repositories.NewMockMenuRepository(),
				orders: repositories.NewMockOrderRepository(),
				staff:  repositories.NewMockStaffRepository(),
			}
		},
		"gorm": func(t *testing.T) repos {
			db := openDB(t)
			return repos{
				menu:   repositories.NewGORMMenuRepository(db),
				orders: repositories.NewGORMOrderRepository(db),
				staff:  repositories.NewGORMStaffRepository(db),
			}
		},
	}
}

func seedMenu(t *testing.T, repo repositories.MenuRepository) {
	t.Helper()
	require.NoError(t, repo.CreateCategory(&models.Category{
		ID: "drinks", Name: "Drinks", DisplayOrder: 2,
		Items: []models.MenuItem{{ID: "lemonade", Name: "Lemonade", Price: 5, AvailableQty: 10, IsAvailable: true}},
	}))
	require.NoError(t, repo.CreateCategory(&models.Category{
		ID: "mains", Name: "Mains", DisplayOrder: 1,
		Items: []models.MenuItem{
			{ID: "pasta", Name: "Pasta", Price: 12, AvailableQty: 2, IsAvailable: true},
			{ID: "burger", Name: "Burger", Price: 10, AvailableQty: 3, IsAvailable: true, Addons: []string{"cheese"}},
		},
	}))
}

func TestMenuRepository(t *testing.T) {
	for name, build := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			r := build(t).menu
			seedMenu(t, r)

			categories, err := r.GetCategories()
			require.NoError(t, err)
			require.Len(t, categories, 2)
			assert.Equal(t, "Mains", categories[0].Name)
			require.Len(t, categories[0].Items, 2)
			assert.Equal(t, "Burger", categories[0].Items[0].Name)
			assert.Equal(t, []string{"cheese"}, categories[0].Items[0].Addons)

			item, err := r.GetItem("burger")
			require.NoError(t, err)
			assert.Equal(t, "mains", item.CategoryID)

			item.IsAvailable = false
			require.NoError(t, r.UpdateItem(item))
			item, err = r.GetItem("burger")
			require.NoError(t, err)
			assert.False(t, item.IsAvailable)
			assert.Equal(t, 3, item.AvailableQty)

			_, err = r.GetItem("nope")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, r.UpdateItem(&models.MenuItem{ID: "nope", Name: "x"}), repositories.ErrNotFound)
		})
	}
}

func TestReserveStockIsAllOrNothing(t *testing.T) {
	for name, build := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			r := build(t).menu
			seedMenu(t, r)

			require.NoError(t, r.ReserveStock(map[string]int{"burger": 2, "lemonade": 1}))

			err := r.ReserveStock(map[string]int{"lemonade": 1, "pasta": 3})
			assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

			err = r.ReserveStock(map[string]int{"ghost": 1})
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			burger, _ := r.GetItem("burger")
			lemonade, _ := r.GetItem("lemonade")
			pasta, _ := r.GetItem("pasta")
			assert.Equal(t, 1, burger.AvailableQty)
			assert.Equal(t, 9, lemonade.AvailableQty)
			assert.Equal(t, 2, pasta.AvailableQty)

			require.NoError(t, r.ReleaseStock(map[string]int{"burger": 2}))
			burger, _ = r.GetItem("burger")
			assert.Equal(t, 3, burger.AvailableQty)
		})
	}
}

func TestReserveStockSoldOut(t *testing.T) {
	for name, build := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			r := build(t).menu
			seedMenu(t, r)

			require.NoError(t, r.ReserveStock(map[string]int{"pasta": 2, "burger": 1}))
			pasta, err := r.GetItem("pasta")
			require.NoError(t, err)
			assert.Equal(t, 0, pasta.AvailableQty)
			assert.False(t, pasta.IsAvailable)
			burger, _ := r.GetItem("burger")
			assert.True(t, burger.IsAvailable)

			require.NoError(t, r.ReleaseStock(map[string]int{"pasta": 1}))
			pasta, _ = r.GetItem("pasta")
			assert.Equal(t, 1, pasta.AvailableQty)
			assert.True(t, pasta.IsAvailable)
		})
	}
}

func TestCreateAndDeleteMenuItem(t *testing.T) {
	for name, build := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			r := build(t).menu
			seedMenu(t, r)

			item := &models.MenuItem{CategoryID: "drinks", Name: "Iced Tea", Price: 3.5, AvailableQty: 6, IsAvailable: true}
			require.NoError(t, r.CreateItem(item))
			require.NotEmpty(t, item.ID)

			categories, err := r.GetCategories()
			require.NoError(t, err)
			require.Len(t, categories[1].Items, 2)
			assert.Equal(t, "Iced Tea", categories[1].Items[0].Name)

			require.NoError(t, r.DeleteItem(item.ID))
			_, err = r.GetItem(item.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, r.DeleteItem(item.ID), repositories.ErrNotFound)

			categories, err = r.GetCategories()
			require.NoError(t, err)
			assert.Len(t, categories[1].Items, 1)
		})
	}
}

func TestOrderRepository(t *testing.T) {
	for name, build := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			r := build(t).orders
			base := time.Now().Add(-time.Hour)

			second := &models.Order{
				ID: "ORD-2-BBB", Status: models.StatusPreparing, CreatedAt: base.Add(time.Minute),
				UserDetails: models.UserDetails{Name: "Bo", Phone: "0123456789", Email: "bo@x.io"},
				Items:       []models.CartLine{{MenuItem: models.MenuItem{ID: "burger", Name: "Burger", Price: 10}, Quantity: 1}},
				Total:       10,
			}
			first := &models.Order{ID: "ORD-1-AAA", Status: models.StatusPending, CreatedAt: base, Total: 5}
			require.NoError(t, r.Create(second))
			require.NoError(t, r.Create(first))
			assert.ErrorIs(t, r.Create(&models.Order{ID: "ORD-1-AAA"}), repositories.ErrDuplicate)

			all, err := r.GetAll("")
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "ORD-1-AAA", all[0].ID)

			preparing, err := r.GetAll(models.StatusPreparing)
			require.NoError(t, err)
			require.Len(t, preparing, 1)
			assert.Equal(t, "Bo", preparing[0].UserDetails.Name)
			assert.Equal(t, 1, preparing[0].Items[0].Quantity)

			second.Items[0].Quantity = 3
			second.Total = 30
			require.NoError(t, r.Update(second))
			got, err := r.GetByID("ORD-2-BBB")
			require.NoError(t, err)
			assert.Equal(t, 3, got.Items[0].Quantity)
			assert.Equal(t, 30.0, got.Total)

			require.NoError(t, r.UpdateStatus("ORD-1-AAA", models.StatusServed))
			got, err = r.GetByID("ORD-1-AAA")
			require.NoError(t, err)
			assert.Equal(t, models.StatusServed, got.Status)

			_, err = r.GetByID("ORD-9-ZZZ")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, r.Update(&models.Order{ID: "ORD-9-ZZZ"}), repositories.ErrNotFound)
			assert.ErrorIs(t, r.UpdateStatus("ORD-9-ZZZ", models.StatusServed), repositories.ErrNotFound)
		})
	}
}

func TestStaffRepository(t *testing.T) {
	for name, build := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			r := build(t).staff
			s := &models.Staff{Name: "Chef", Email: "Chef@Example.com", Password: "hash"}
			require.NoError(t, r.Create(s))
			assert.NotEmpty(t, s.ID)

			got, err := r.GetByEmail("chef@example.com")
			require.NoError(t, err)
			assert.Equal(t, s.ID, got.ID)

			got, err = r.GetByID(s.ID)
			require.NoError(t, err)
			assert.Equal(t, "Chef", got.Name)

			err = r.Create(&models.Staff{Name: "Other", Email: "chef@example.com", Password: "hash"})
			assert.ErrorIs(t, err, repositories.ErrDuplicate)

			_, err = r.GetByEmail("ghost@example.com")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}
