package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"datex/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo is an in-memory ProductRepository.
type fakeProductRepo struct {
	products map[string]*models.Product
	failList bool
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	m := make(map[string]*models.Product)
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, userID, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return p, nil
}

func (f *fakeProductRepo) ListByUser(_ context.Context, userID string) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListAll(_ context.Context) ([]models.Product, error) {
	if f.failList {
		return nil, fmt.Errorf("store unreachable")
	}
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, _, id string) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) MarkNotified(_ context.Context, id string) (bool, error) {
	p, ok := f.products[id]
	if !ok || p.Notified {
		return false, nil
	}
	p.Notified = true
	return true, nil
}

// fakeUserRepo satisfies the user lookup used for push delivery.
type fakeUserRepo struct{}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id}, nil
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Create(_ context.Context, _ *models.User) error   { return nil }
func (f *fakeUserRepo) SetFCMToken(_ context.Context, _, _ string) error { return nil }

// fakeMailer records sends and can fail for selected recipients.
type fakeMailer struct {
	sent    []map[string]string
	failFor map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, templateID string, vars map[string]string) error {
	if f.failFor[vars["to_email"]] {
		return fmt.Errorf("smtp: connection refused")
	}
	f.sent = append(f.sent, vars)
	return nil
}

func sweepNow() time.Time {
	t, _ := time.Parse("2006-01-02", "2024-01-01")
	return t
}

func testProduct(id string, daysLeft int, notified bool) *models.Product {
	return &models.Product{
		ID:       id,
		UserID:   "u-" + id,
		Name:     "Milk " + id,
		Expiry:   sweepNow().AddDate(0, 0, daysLeft),
		Owner:    id + "@example.com",
		Notified: notified,
	}
}

func newTestSweeper(repo *fakeProductRepo, m *fakeMailer) *Sweeper {
	s := NewSweeper(repo, &fakeUserRepo{}, m, 3)
	s.Now = sweepNow
	return s
}

func TestSweep_EmailsAndFlagsDueProducts(t *testing.T) {
	repo := newFakeProductRepo(
		testProduct("a", 2, false),  // due
		testProduct("b", 3, false),  // window edge, due
		testProduct("c", 4, false),  // outside window
		testProduct("d", 2, true),   // already flagged
		testProduct("e", -1, false), // expired and never alerted, still due
	)
	m := &fakeMailer{}

	require.NoError(t, newTestSweeper(repo, m).Run(context.Background()))

	sentTo := map[string]bool{}
	for _, vars := range m.sent {
		sentTo[vars["to_email"]] = true
	}
	assert.Equal(t, map[string]bool{
		"a@example.com": true,
		"b@example.com": true,
		"e@example.com": true,
	}, sentTo)

	assert.True(t, repo.products["a"].Notified)
	assert.True(t, repo.products["b"].Notified)
	assert.False(t, repo.products["c"].Notified)
	assert.True(t, repo.products["e"].Notified)
}

func TestSweep_SecondRunSendsNothing(t *testing.T) {
	repo := newFakeProductRepo(testProduct("a", 2, false))
	m := &fakeMailer{}
	s := newTestSweeper(repo, m)

	require.NoError(t, s.Run(context.Background()))
	require.NoError(t, s.Run(context.Background()))

	assert.Len(t, m.sent, 1)
}

func TestSweep_SendFailureLeavesFlagUnsetAndContinues(t *testing.T) {
	repo := newFakeProductRepo(
		testProduct("a", 1, false),
		testProduct("b", 2, false),
	)
	m := &fakeMailer{failFor: map[string]bool{"a@example.com": true}}
	s := newTestSweeper(repo, m)

	require.NoError(t, s.Run(context.Background()))

	// The failed product is left for the next run; the rest of the sweep
	// still completed.
	assert.False(t, repo.products["a"].Notified)
	assert.True(t, repo.products["b"].Notified)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "b@example.com", m.sent[0]["to_email"])

	// Next run retries the failed product.
	m.failFor = nil
	require.NoError(t, s.Run(context.Background()))
	assert.True(t, repo.products["a"].Notified)
	assert.Len(t, m.sent, 2)
}

func TestSweep_MailVariables(t *testing.T) {
	repo := newFakeProductRepo(testProduct("a", 2, false))
	m := &fakeMailer{}

	require.NoError(t, newTestSweeper(repo, m).Run(context.Background()))

	require.Len(t, m.sent, 1)
	vars := m.sent[0]
	assert.Equal(t, "Milk a", vars["product"])
	assert.Equal(t, "Wed Jan 03 2024", vars["expiry"])
	assert.Equal(t, "a@example.com", vars["to_email"])
}

func TestSweep_ListFailure(t *testing.T) {
	repo := newFakeProductRepo()
	repo.failList = true

	err := newTestSweeper(repo, &fakeMailer{}).Run(context.Background())
	assert.Error(t, err)
}
