package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/customer-records/internal/models"
)

func strPtr(s string) *string { return &s }

func newTestMemoryRepo(t *testing.T) *memoryCustomerRepository {
	t.Helper()
	repo := NewMemoryCustomerRepository().(*memoryCustomerRepository)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return repo
}

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	created, err := repo.Create(ctx, &models.CreateCustomerInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		City:      strPtr("London"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created, byEmail)

	missing, err := repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing, "email lookup is case-sensitive")
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	created, err := repo.Create(ctx, &models.CreateCustomerInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", City: strPtr("London"),
	})
	require.NoError(t, err)

	created.FirstName = "Changed"
	*created.City = "Paris"

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.FirstName)
	assert.Equal(t, "London", *stored.City)
}

func TestMemoryRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	input := &models.CreateCustomerInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	_, err := repo.Create(ctx, input)
	require.NoError(t, err)

	_, err = repo.Create(ctx, input)
	assert.True(t, errors.Is(err, models.ErrConflict))
}

func TestMemoryRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	grace, err := repo.Create(ctx, &models.CreateCustomerInput{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", City: strPtr("Arlington"),
	})
	require.NoError(t, err)
	alan, err := repo.Create(ctx, &models.CreateCustomerInput{
		FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Country: strPtr("UK"),
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "no filter newest first", search: "", want: []string{alan.ID, grace.ID}},
		{name: "blank filter", search: "   ", want: []string{alan.ID, grace.ID}},
		{name: "first name", search: "Grace", want: []string{grace.ID}},
		{name: "case insensitive city", search: "arlington", want: []string{grace.ID}},
		{name: "country", search: "uk", want: []string{alan.ID}},
		{name: "email domain", search: "example.com", want: []string{alan.ID, grace.ID}},
		{name: "no match", search: "nobody", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, models.CustomerFilter{Search: tt.search})
			require.NoError(t, err)
			ids := []string{}
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	created, err := repo.Create(ctx, &models.CreateCustomerInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: strPtr("555-0100"),
		City:        strPtr("London"),
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, &models.UpdateCustomerInput{
		FirstName:   strPtr("Augusta"),
		PhoneNumber: models.Null(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Nil(t, updated.PhoneNumber)
	require.NotNil(t, updated.City)
	assert.Equal(t, "London", *updated.City)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = repo.Update(ctx, "missing", &models.UpdateCustomerInput{FirstName: strPtr("X")})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestMemoryRepository_UpdateEmailReindexes(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	ada, err := repo.Create(ctx, &models.CreateCustomerInput{FirstName: "Ada", LastName: "L", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.CreateCustomerInput{FirstName: "Alan", LastName: "T", Email: "alan@example.com"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, ada.ID, &models.UpdateCustomerInput{Email: strPtr("alan@example.com")})
	assert.True(t, errors.Is(err, models.ErrConflict))

	_, err = repo.Update(ctx, ada.ID, &models.UpdateCustomerInput{Email: strPtr("countess@example.com")})
	require.NoError(t, err)

	old, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Nil(t, old)

	renamed, err := repo.FindByEmail(ctx, "countess@example.com")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, ada.ID, renamed.ID)
}

func TestMemoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestMemoryRepo(t)

	created, err := repo.Create(ctx, &models.CreateCustomerInput{FirstName: "Ada", LastName: "L", Email: "ada@example.com"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	// the email is free again
	_, err = repo.Create(ctx, &models.CreateCustomerInput{FirstName: "Ada", LastName: "L", Email: "ada@example.com"})
	assert.NoError(t, err)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := newTestMemoryRepo(t)
	_, err := repo.FindAll(ctx, models.CustomerFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
