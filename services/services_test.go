package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"testing"
	"time"

	"techgo/cache"
	"techgo/database"
	"techgo/models"
	"techgo/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// mapCache is an in-process cache.Store for asserting cache behaviour.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (m *mapCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *mapCache) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *mapCache) Ping(context.Context) error { return nil }

func (m *mapCache) Snapshot() cache.StatsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cache.StatsSnapshot{Sets: uint64(m.sets)}
}

func (m *mapCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func setupServices(t *testing.T) (*Services, *fakeClock, *mapCache) {
	t.Helper()
	c := newMapCache()
	svc := New(setupTestDB(t), c)
	clock := &fakeClock{t: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)}
	svc.SetClock(clock.Now)
	return svc, clock, c
}

func createGadget(t *testing.T, svc *Services, name, brand string, category models.Category, price string) *GadgetDetail {
	t.Helper()
	detail, err := svc.Gadgets.Create(context.Background(), GadgetInput{
		Name:     name,
		Brand:    brand,
		Category: category,
		Price:    decimal.RequireFromString(price),
	}, nil)
	require.NoError(t, err)
	return detail
}

func TestComparisonLifecycle(t *testing.T) {
	svc, clock, _ := setupServices(t)
	ctx := context.Background()
	g1 := createGadget(t, svc, "iPhone 15", "Apple", models.CategoryMobiles, "999.99").Gadget
	g2 := createGadget(t, svc, "Galaxy S24", "Samsung", models.CategoryMobiles, "899").Gadget
	g3 := createGadget(t, svc, "Pixel 8", "Google", models.CategoryMobiles, "699").Gadget
	g4 := createGadget(t, svc, "Xperia 1", "Sony", models.CategoryMobiles, "1099").Gadget

	list, err := svc.Comparisons.CreateComparison(ctx, "My Comparison")
	require.NoError(t, err)
	assert.NotEmpty(t, list.ID)
	assert.Equal(t, clock.Now().Add(7*24*time.Hour), list.ExpiresAt)

	item, created, err := svc.Comparisons.AddGadget(ctx, list.ID, g1.ID)
	require.NoError(t, err)
	assert.True(t, created)
	detail, err := svc.Comparisons.GetComparison(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.List.GadgetCount())
	assert.Equal(t, 2, detail.List.RemainingSlots(clock.Now()))

	again, created, err := svc.Comparisons.AddGadget(ctx, list.ID, g1.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, again.ID)
	detail, err = svc.Comparisons.GetComparison(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.List.GadgetCount())

	for _, g := range []models.Gadget{g2, g3} {
		clock.Advance(time.Second)
		_, _, err := svc.Comparisons.AddGadget(ctx, list.ID, g.ID)
		require.NoError(t, err)
	}
	detail, err = svc.Comparisons.GetComparison(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.List.GadgetCount())
	assert.Equal(t, 0, detail.List.RemainingSlots(clock.Now()))
	assert.Len(t, detail.Gadgets, 3)

	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, g4.ID)
	assert.True(t, IsKind(err, KindCapacity), "got %v", err)

	// a member can still be re-added on a full list
	_, created, err = svc.Comparisons.AddGadget(ctx, list.ID, g2.ID)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAddGadgetFailures(t *testing.T) {
	svc, clock, _ := setupServices(t)
	ctx := context.Background()
	g := createGadget(t, svc, "MacBook Air", "Apple", models.CategoryLaptops, "1199").Gadget
	list, err := svc.Comparisons.CreateComparison(ctx, "Laptops")
	require.NoError(t, err)

	_, _, err = svc.Comparisons.AddGadget(ctx, "missing", g.ID)
	assert.True(t, IsKind(err, KindNotFound))

	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, 9999)
	assert.True(t, IsKind(err, KindNotFound))

	clock.Advance(models.ComparisonTTL)
	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, g.ID)
	require.NoError(t, err, "the expiry instant itself is still active")

	clock.Advance(time.Millisecond)
	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, g.ID)
	assert.True(t, IsKind(err, KindExpired), "got %v", err)

	_, err = svc.Comparisons.RemoveGadget(ctx, list.ID, g.ID)
	assert.True(t, IsKind(err, KindExpired))

	detail, err := svc.Comparisons.GetComparison(ctx, list.ID)
	require.NoError(t, err, "expired lists stay readable")
	assert.True(t, detail.List.IsExpired(clock.Now()))
	assert.Equal(t, 0, detail.List.RemainingSlots(clock.Now()))
}

func TestCreateComparisonValidation(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	_, err := svc.Comparisons.CreateComparison(ctx, "   ")
	assert.True(t, IsKind(err, KindValidation))

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.Comparisons.CreateComparison(ctx, string(long))
	assert.True(t, IsKind(err, KindValidation))

	list, err := svc.Comparisons.CreateComparison(ctx, "  Trimmed  ")
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", list.Name)
}

func TestConcurrentAddsRespectCapacity(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	list, err := svc.Comparisons.CreateComparison(ctx, "Race")
	require.NoError(t, err)

	var ids []uint
	for _, name := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8"} {
		ids = append(ids, createGadget(t, svc, name, "Brand", models.CategoryTablets, "100").Gadget.ID)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		capacity   int
		unexpected []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, ok, err := svc.Comparisons.AddGadget(ctx, list.ID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && ok:
				created++
			case IsKind(err, KindCapacity):
				capacity++
			default:
				unexpected = append(unexpected, err)
			}
		}(id)
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, models.ComparisonCapacity, created)
	assert.Equal(t, len(ids)-models.ComparisonCapacity, capacity)

	detail, err := svc.Comparisons.GetComparison(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComparisonCapacity, detail.List.GadgetCount())
}

func TestConcurrentCreatesKeepNameAndBrandUnique(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
		unexpected []error
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Gadgets.Create(ctx, GadgetInput{Name: "Pixel 8", Brand: "Google", Category: models.CategoryMobiles, Price: decimal.NewFromInt(699)}, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case IsKind(err, KindDuplicate):
				duplicates++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, created)
	assert.Equal(t, 5, duplicates)

	page, err := svc.Gadgets.List(ctx, repositories.GadgetFilter{Name: "Pixel 8"}, repositories.SortID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestFindByNameAndBrand(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	want := createGadget(t, svc, "Phone", "Acme", models.CategoryMobiles, "10").Gadget
	createGadget(t, svc, "Phone X", "Acme", models.CategoryMobiles, "20")

	got, err := svc.Gadgets.FindByNameAndBrand(ctx, " Phone ", "Acme")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)

	_, err = svc.Gadgets.FindByNameAndBrand(ctx, "Phone", "Other")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestLatestCapsLimit(t *testing.T) {
	svc, clock, _ := setupServices(t)
	ctx := context.Background()
	for i := 0; i < MaxFeatured+2; i++ {
		createGadget(t, svc, fmt.Sprintf("Speaker %02d", i), "Sonos", models.CategorySpeakers, "199")
		clock.Advance(time.Minute)
	}

	latest, err := svc.Gadgets.Latest(ctx, MaxFeatured+10)
	require.NoError(t, err)
	assert.Len(t, latest, MaxFeatured)
	assert.Equal(t, fmt.Sprintf("Speaker %02d", MaxFeatured+1), latest[0].Name)

	popular, err := svc.Gadgets.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, popular, DefaultFeatured)
}

func TestCachedLoadIgnoresCallerCancellation(t *testing.T) {
	svc, _, c := setupServices(t)
	createGadget(t, svc, "HomePod", "Apple", models.CategorySpeakers, "299")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	brands, err := svc.Gadgets.Brands(ctx, models.CategorySpeakers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, brands)
	assert.True(t, c.has("brands:speakers"))
}

func TestRemoveGadgetAndDelete(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	g := createGadget(t, svc, "HomePod", "Apple", models.CategorySpeakers, "299").Gadget
	list, err := svc.Comparisons.CreateComparison(ctx, "Speakers")
	require.NoError(t, err)

	removed, err := svc.Comparisons.RemoveGadget(ctx, list.ID, g.ID)
	require.NoError(t, err)
	assert.False(t, removed, "removing a non-member is a no-op")

	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, g.ID)
	require.NoError(t, err)
	removed, err = svc.Comparisons.RemoveGadget(ctx, list.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.Comparisons.RemoveGadget(ctx, "missing", g.ID)
	assert.True(t, IsKind(err, KindNotFound))

	require.NoError(t, svc.Comparisons.DeleteComparison(ctx, list.ID))
	_, err = svc.Comparisons.GetComparison(ctx, list.ID)
	assert.True(t, IsKind(err, KindNotFound))
	assert.True(t, IsKind(svc.Comparisons.DeleteComparison(ctx, list.ID), KindNotFound))
}

func TestCompareView(t *testing.T) {
	svc, clock, _ := setupServices(t)
	ctx := context.Background()

	phone, err := svc.Gadgets.Create(ctx, GadgetInput{Name: "iPhone 15", Brand: "Apple", Category: models.CategoryMobiles, Price: decimal.NewFromInt(999)},
		[]SpecInput{{Name: "Display", Value: "6.1 in"}, {Name: "Battery", Value: "3349 mAh"}})
	require.NoError(t, err)
	other, err := svc.Gadgets.Create(ctx, GadgetInput{Name: "Pixel 8", Brand: "Google", Category: models.CategoryMobiles, Price: decimal.NewFromInt(699)},
		[]SpecInput{{Name: "Display", Value: "6.2 in"}, {Name: "Chip", Value: "Tensor G3"}})
	require.NoError(t, err)

	list, err := svc.Comparisons.CreateComparison(ctx, "Phones")
	require.NoError(t, err)
	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, other.Gadget.ID)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, phone.Gadget.ID)
	require.NoError(t, err)

	view, err := svc.Comparisons.CompareView(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, view.Gadgets, 2)
	assert.Equal(t, "Pixel 8", view.Gadgets[0].Name, "gadgets keep the order they were added in")
	assert.Equal(t, []CompareRow{
		{SpecName: "Battery", Values: []string{"", "3349 mAh"}},
		{SpecName: "Chip", Values: []string{"Tensor G3", ""}},
		{SpecName: "Display", Values: []string{"6.2 in", "6.1 in"}},
	}, view.Rows)
}

func TestPurgeExpired(t *testing.T) {
	svc, clock, _ := setupServices(t)
	ctx := context.Background()

	old, err := svc.Comparisons.CreateComparison(ctx, "Old")
	require.NoError(t, err)
	clock.Advance(5 * 24 * time.Hour)
	fresh, err := svc.Comparisons.CreateComparison(ctx, "Fresh")
	require.NoError(t, err)
	clock.Advance(3 * 24 * time.Hour)

	deleted, err := svc.Comparisons.PurgeExpired(ctx, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.Comparisons.GetComparison(ctx, old.ID)
	assert.True(t, IsKind(err, KindNotFound))
	_, err = svc.Comparisons.GetComparison(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestReviewRatingAggregation(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	g := createGadget(t, svc, "Sony WH-1000XM5", "Sony", models.CategoryEarphones, "399").Gadget

	var reviews []*models.Review
	for i, rating := range []int{5, 5, 5, 4, 4, 4, 3, 3} {
		r, err := svc.Reviews.AddReview(ctx, g.ID, ReviewInput{
			UserName: "listener",
			Email:    string(rune('a'+i)) + "@example.com",
			Rating:   rating,
			Comment:  "great",
		})
		require.NoError(t, err)
		reviews = append(reviews, r)
	}

	detail, err := svc.Gadgets.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.13", detail.Gadget.Rating.StringFixed(2), "33/8 = 4.125 rounds half-up")
	assert.Equal(t, 8, detail.Gadget.ReviewCount)

	require.NoError(t, svc.Reviews.DeleteReview(ctx, reviews[6].ID))
	detail, err = svc.Gadgets.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.29", detail.Gadget.Rating.StringFixed(2))
	assert.Equal(t, 7, detail.Gadget.ReviewCount)

	for _, r := range append(reviews[:6], reviews[7]) {
		require.NoError(t, svc.Reviews.DeleteReview(ctx, r.ID))
	}
	detail, err = svc.Gadgets.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, detail.Gadget.Rating.IsZero())
	assert.Equal(t, 0, detail.Gadget.ReviewCount)

	assert.True(t, IsKind(svc.Reviews.DeleteReview(ctx, reviews[0].ID), KindNotFound))
}

func TestAddReviewFailures(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	g := createGadget(t, svc, "iPad Air", "Apple", models.CategoryTablets, "599").Gadget

	_, err := svc.Reviews.AddReview(ctx, 404, ReviewInput{UserName: "a", Email: "a@example.com", Rating: 5})
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.Reviews.AddReview(ctx, g.ID, ReviewInput{UserName: "", Email: "nope", Rating: 6})
	require.True(t, IsKind(err, KindValidation))
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Fields, "userName")
	assert.Contains(t, svcErr.Fields, "email")
	assert.Contains(t, svcErr.Fields, "rating")

	_, err = svc.Reviews.AddReview(ctx, g.ID, ReviewInput{UserName: "Jo", Email: "jo@example.com", Rating: 4})
	require.NoError(t, err)
	_, err = svc.Reviews.AddReview(ctx, g.ID, ReviewInput{UserName: "Jo", Email: "JO@example.com", Rating: 2})
	assert.True(t, IsKind(err, KindDuplicate))

	page, err := svc.Reviews.ListReviews(ctx, g.ID, 0, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	dist, err := svc.Reviews.RatingDistribution(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dist[4])
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		sum, count int64
		want       string
	}{
		{0, 0, "0.00"},
		{5, 1, "5.00"},
		{33, 8, "4.13"},
		{10, 3, "3.33"},
		{11, 3, "3.67"},
		{9, 2, "4.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AverageRating(tt.sum, tt.count).StringFixed(2))
	}
}

func TestGadgetUniqueness(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	first := createGadget(t, svc, "Galaxy Tab S9", "Samsung", models.CategoryTablets, "799")

	_, err := svc.Gadgets.Create(ctx, GadgetInput{Name: "Galaxy Tab S9", Brand: "Samsung", Category: models.CategoryTablets, Price: decimal.NewFromInt(1)}, nil)
	assert.True(t, IsKind(err, KindDuplicate))

	other := createGadget(t, svc, "Galaxy Tab S9", "Other Brand", models.CategoryTablets, "10")
	assert.NotEqual(t, first.Gadget.ID, other.Gadget.ID)

	// updating a gadget onto its own name is fine, onto another's is not
	_, err = svc.Gadgets.Update(ctx, first.Gadget.ID, GadgetInput{Name: "Galaxy Tab S9", Brand: "Samsung", Category: models.CategoryTablets, Price: decimal.NewFromInt(749)})
	require.NoError(t, err)
	_, err = svc.Gadgets.Update(ctx, other.Gadget.ID, GadgetInput{Name: "Galaxy Tab S9", Brand: "Samsung", Category: models.CategoryTablets, Price: decimal.NewFromInt(10)})
	assert.True(t, IsKind(err, KindDuplicate))

	_, err = svc.Gadgets.Update(ctx, 4040, GadgetInput{Name: "X", Brand: "Y", Category: models.CategoryTablets, Price: decimal.NewFromInt(10)})
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.Gadgets.Create(ctx, GadgetInput{Name: "Free", Brand: "Y", Category: "watches", Price: decimal.Zero}, nil)
	require.True(t, IsKind(err, KindValidation))

	_, err = svc.Gadgets.Create(ctx, GadgetInput{Name: "Twice", Brand: "Y", Category: models.CategoryTablets, Price: decimal.NewFromInt(5)},
		[]SpecInput{{Name: "RAM", Value: "8GB"}, {Name: "RAM", Value: "16GB"}})
	assert.True(t, IsKind(err, KindDuplicate))
}

func TestUpdateKeepsRatingAndSpecs(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	created, err := svc.Gadgets.Create(ctx, GadgetInput{Name: "Surface Pro", Brand: "Microsoft", Category: models.CategoryTablets, Price: decimal.NewFromInt(999)},
		[]SpecInput{{Name: "RAM", Value: "16GB"}})
	require.NoError(t, err)
	_, err = svc.Reviews.AddReview(ctx, created.Gadget.ID, ReviewInput{UserName: "sam", Email: "sam@example.com", Rating: 4})
	require.NoError(t, err)

	updated, err := svc.Gadgets.Update(ctx, created.Gadget.ID, GadgetInput{Name: "Surface Pro 10", Brand: "Microsoft", Category: models.CategoryLaptops, Price: decimal.RequireFromString("1099.50")})
	require.NoError(t, err)
	assert.Equal(t, "Surface Pro 10", updated.Gadget.Name)
	assert.Equal(t, models.CategoryLaptops, updated.Gadget.Category)
	assert.Equal(t, "4.00", updated.Gadget.Rating.StringFixed(2))
	assert.Equal(t, 1, updated.Gadget.ReviewCount)
	assert.Len(t, updated.Specifications, 1)
}

func TestSpecifications(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	g := createGadget(t, svc, "Echo Dot", "Amazon", models.CategorySpeakers, "49.99").Gadget

	_, err := svc.Gadgets.AddSpecification(ctx, g.ID, SpecInput{Name: "Connectivity", Value: "Wi-Fi"})
	require.NoError(t, err)
	_, err = svc.Gadgets.AddSpecification(ctx, g.ID, SpecInput{Name: "Connectivity", Value: "Bluetooth"})
	assert.True(t, IsKind(err, KindDuplicate))
	_, err = svc.Gadgets.AddSpecification(ctx, g.ID, SpecInput{Name: "connectivity", Value: "Bluetooth"})
	assert.NoError(t, err, "spec names are case-sensitive")
	_, err = svc.Gadgets.AddSpecification(ctx, 777, SpecInput{Name: "Color", Value: "Blue"})
	assert.True(t, IsKind(err, KindNotFound))

	specs, err := svc.Gadgets.ListSpecifications(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, specs, 2)
	_, err = svc.Gadgets.ListSpecifications(ctx, 777)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestDeleteGadgetCascades(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	created, err := svc.Gadgets.Create(ctx, GadgetInput{Name: "JBL Flip 6", Brand: "JBL", Category: models.CategorySpeakers, Price: decimal.NewFromInt(129)},
		[]SpecInput{{Name: "Waterproof", Value: "IP67"}})
	require.NoError(t, err)
	id := created.Gadget.ID
	_, err = svc.Reviews.AddReview(ctx, id, ReviewInput{UserName: "kim", Email: "kim@example.com", Rating: 5})
	require.NoError(t, err)
	list, err := svc.Comparisons.CreateComparison(ctx, "Speakers")
	require.NoError(t, err)
	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, id)
	require.NoError(t, err)

	require.NoError(t, svc.Gadgets.Delete(ctx, id))

	_, err = svc.Gadgets.Get(ctx, id)
	assert.True(t, IsKind(err, KindNotFound))
	detail, err := svc.Comparisons.GetComparison(ctx, list.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.List.GadgetCount())

	page, err := svc.Reviews.ListAllReviews(ctx, repositories.ReviewFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	assert.True(t, IsKind(svc.Gadgets.Delete(ctx, id), KindNotFound))
}

func TestListAndSearchValidation(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()
	createGadget(t, svc, "iPhone 15", "Apple", models.CategoryMobiles, "999")
	createGadget(t, svc, "iPhone Case", "Spigen", models.CategoryMobiles, "19")
	createGadget(t, svc, "iPad mini", "Apple", models.CategoryTablets, "499")

	page, err := svc.Gadgets.Search(ctx, "IPHONE", models.CategoryMobiles, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.Gadgets.Search(ctx, "iphone", "", "Apple", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = svc.Gadgets.Search(ctx, "  ", "", "", 0, 10)
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.Gadgets.List(ctx, repositories.GadgetFilter{}, repositories.SortID, -1, 10)
	assert.True(t, IsKind(err, KindValidation))
	_, err = svc.Gadgets.List(ctx, repositories.GadgetFilter{}, repositories.SortID, 0, 101)
	assert.True(t, IsKind(err, KindValidation))

	lo, hi := decimal.NewFromInt(500), decimal.NewFromInt(100)
	_, err = svc.Gadgets.List(ctx, repositories.GadgetFilter{MinPrice: &lo, MaxPrice: &hi}, repositories.SortID, 0, 10)
	assert.True(t, IsKind(err, KindValidation))
}

func TestBrandsAndFeaturedAreCached(t *testing.T) {
	svc, _, c := setupServices(t)
	ctx := context.Background()
	g := createGadget(t, svc, "AirPods Pro", "Apple", models.CategoryEarphones, "249").Gadget
	createGadget(t, svc, "Buds 2", "Samsung", models.CategoryEarphones, "149")

	brands, err := svc.Gadgets.Brands(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Samsung"}, brands)
	assert.True(t, c.has("brands:all"))

	featured, err := svc.Gadgets.Featured(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, featured)
	assert.True(t, c.has("featured:all:6"))

	_, err = svc.Reviews.AddReview(ctx, g.ID, ReviewInput{UserName: "al", Email: "al@example.com", Rating: 5})
	require.NoError(t, err)
	assert.False(t, c.has("featured:all:6"), "a rating change invalidates featured lists")
	assert.False(t, c.has("brands:all"))

	featured, err = svc.Gadgets.Featured(ctx, models.CategoryEarphones, 3)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "AirPods Pro", featured[0].Name)

	// served from cache
	featured, err = svc.Gadgets.Featured(ctx, models.CategoryEarphones, 3)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.True(t, featured[0].Rating.Equal(decimal.NewFromInt(5)))
}

func TestStats(t *testing.T) {
	svc, clock, _ := setupServices(t)
	ctx := context.Background()
	a := createGadget(t, svc, "iPhone 15", "Apple", models.CategoryMobiles, "999").Gadget
	b := createGadget(t, svc, "MacBook Air", "Apple", models.CategoryLaptops, "1199").Gadget

	for _, name := range []string{"one", "two"} {
		list, err := svc.Comparisons.CreateComparison(ctx, name)
		require.NoError(t, err)
		_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, a.ID)
		require.NoError(t, err)
	}
	list, err := svc.Comparisons.CreateComparison(ctx, "three")
	require.NoError(t, err)
	_, _, err = svc.Comparisons.AddGadget(ctx, list.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.Reviews.AddReview(ctx, a.ID, ReviewInput{UserName: "al", Email: "al@example.com", Rating: 5})
	require.NoError(t, err)

	stats, err := svc.Stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalGadgets)
	assert.Equal(t, int64(1), stats.TotalBrands)
	assert.Equal(t, int64(1), stats.GadgetsByCategory[models.CategoryLaptops])
	assert.Equal(t, int64(1), stats.TotalReviews)
	assert.Equal(t, int64(1), stats.ReviewsToday)
	assert.Equal(t, int64(3), stats.ActiveComparisons)
	assert.Equal(t, int64(3), stats.ComparisonsToday)
	require.Len(t, stats.MostComparedGadgets, 2)
	assert.Equal(t, TopCompared{GadgetID: a.ID, Name: "iPhone 15", Brand: "Apple", Count: 2}, stats.MostComparedGadgets[0])
	require.NotNil(t, stats.Cache)

	clock.Advance(8 * 24 * time.Hour)
	stats, err = svc.Stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.ActiveComparisons)
	assert.Equal(t, int64(3), stats.ExpiredComparisons)
	assert.Equal(t, int64(0), stats.ReviewsToday)
}

func TestErrorKinds(t *testing.T) {
	err := Capacity("full")
	assert.Equal(t, KindCapacity, KindOf(err))
	assert.Equal(t, "full", err.Error())
	assert.Equal(t, Kind(0), KindOf(assert.AnError))
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.True(t, IsKind(NotFound("x %d", 1), KindNotFound))
}
