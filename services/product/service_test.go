package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"datex/models"
	"datex/services/notification"
	"datex/services/reminder"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo is an in-memory ProductRepository. Setting failList
// makes reads fail, simulating an unreachable store.
type fakeProductRepo struct {
	products map[string]models.Product
	failList bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]models.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, userID, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProductRepo) ListByUser(_ context.Context, userID string) ([]models.Product, error) {
	if f.failList {
		return nil, errors.New("store unreachable")
	}
	out := []models.Product{}
	for _, p := range f.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProductRepo) ListAll(_ context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	existing, ok := f.products[p.ID]
	if !ok || existing.UserID != p.UserID {
		return fmt.Errorf("product with id %s not found", p.ID)
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, userID, id string) error {
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("product with id %s not found", id)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) MarkNotified(_ context.Context, id string) (bool, error) {
	p, ok := f.products[id]
	if !ok || p.Notified {
		return false, nil
	}
	p.Notified = true
	f.products[id] = p
	return true, nil
}

// fakeNotificationRepo records what the reminder policy creates.
type fakeNotificationRepo struct {
	notifications []models.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) ExistsByTitle(_ context.Context, userID, title string) (bool, error) {
	for _, n := range f.notifications {
		if n.UserID == userID && n.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) CountUnseen(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Seen {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkSeen(_ context.Context, userID, id string) error { return nil }
func (f *fakeNotificationRepo) MarkAllSeen(_ context.Context, userID string) error  { return nil }
func (f *fakeNotificationRepo) Delete(_ context.Context, userID, id string) error   { return nil }

var serviceNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type serviceFixture struct {
	svc   *DefaultProductService
	repo  *fakeProductRepo
	notes *fakeNotificationRepo
	cache *SnapshotCache
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newFakeProductRepo()
	notes := &fakeNotificationRepo{}
	cache := NewSnapshotCache(client)

	policy := reminder.NewPolicy(notes, notification.NewHub(client), 7)
	policy.Now = func() time.Time { return serviceNow }

	svc := NewDefaultProductService(repo, cache, policy)
	svc.Now = func() time.Time { return serviceNow }

	return &serviceFixture{svc: svc, repo: repo, notes: notes, cache: cache}
}

var testUser = &models.User{ID: "u1", Email: "sam@example.com"}

func milkInput() ProductInput {
	return ProductInput{
		Name:         "Milk",
		Expiry:       time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		Category:     models.CategoryFood,
		Quantity:     1,
		RemindBefore: models.RemindBefore3Days,
	}
}

func TestCreateStoresProductAndRaisesReminder(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, testUser, milkInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "sam@example.com", created.Owner)
	assert.False(t, created.Notified)

	// Three days out is inside the in-app window.
	require.Len(t, fx.notes.notifications, 1)
	note := fx.notes.notifications[0]
	assert.Equal(t, "Milk is expiring on Thu Jan 04 2024", note.Title)
	assert.Equal(t, created.ID, note.ProductID)
	assert.False(t, note.Seen)

	// The snapshot was refreshed as part of the mutation.
	cached, err := fx.cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Milk", cached[0].Name)
}

func TestCreateOutsideWindowRaisesNoReminder(t *testing.T) {
	fx := newServiceFixture(t)

	in := milkInput()
	in.Expiry = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := fx.svc.Create(context.Background(), testUser, in)
	require.NoError(t, err)
	assert.Empty(t, fx.notes.notifications)
}

func TestListServesSnapshotWhenStoreUnreachable(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, testUser, milkInput())
	require.NoError(t, err)

	fx.repo.failList = true

	products, err := fx.svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, created.ID, products[0].ID)
}

func TestListFailsWithoutSnapshot(t *testing.T) {
	fx := newServiceFixture(t)
	fx.repo.failList = true

	_, err := fx.svc.List(context.Background(), "u1")
	assert.Error(t, err)
}

func TestUpdateOverwritesFieldsWithoutNewReminder(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, testUser, milkInput())
	require.NoError(t, err)
	require.Len(t, fx.notes.notifications, 1)

	in := milkInput()
	in.Name = "Oat Milk"
	in.Quantity = 2

	updated, err := fx.svc.Update(ctx, "u1", created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Oat Milk", updated.Name)
	assert.Equal(t, 2, updated.Quantity)

	// Edits never re-run the reminder policy, even with a new title.
	assert.Len(t, fx.notes.notifications, 1)
}

func TestUpdateRejectsForeignProduct(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, testUser, milkInput())
	require.NoError(t, err)

	_, err = fx.svc.Update(ctx, "intruder", created.ID, milkInput())
	assert.Error(t, err)
}

func TestDeleteRemovesProductAndRefreshesSnapshot(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, testUser, milkInput())
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, "u1", created.ID))

	products, err := fx.svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, products)

	cached, err := fx.cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestSummaryCountsByStatus(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	expiries := map[string]time.Time{
		"Yoghurt": time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC), // expired
		"Milk":    time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),   // expiring soon
		"Cheese":  time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),   // expiring soon, boundary
		"Honey":   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),   // good
	}
	for name, exp := range expiries {
		in := milkInput()
		in.Name = name
		in.Expiry = exp
		_, err := fx.svc.Create(ctx, testUser, in)
		require.NoError(t, err)
	}

	summary, err := fx.svc.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.NearExpiry)
	assert.Equal(t, 1, summary.Expired)
}
