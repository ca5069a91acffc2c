package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Raymond9734/customer-records/internal/models"
)

// memoryCustomerRepository implements CustomerRepository in process memory.
// It enforces the same email uniqueness constraint as the database schema.
type memoryCustomerRepository struct {
	mu      sync.RWMutex
	byID    map[string]*memoryRecord
	byEmail map[string]string
	seq     uint64
	now     func() time.Time
}

type memoryRecord struct {
	customer *models.Customer
	seq      uint64
}

// NewMemoryCustomerRepository creates an empty in-memory customer repository
func NewMemoryCustomerRepository() CustomerRepository {
	return &memoryCustomerRepository{
		byID:    make(map[string]*memoryRecord),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *memoryCustomerRepository) Create(ctx context.Context, input *models.CreateCustomerInput) (*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[input.Email]; taken {
		return nil, models.ErrConflictWithMsg("Email already exists")
	}

	customer := &models.Customer{
		ID:          uuid.NewString(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		CreatedAt:   r.now().UTC(),
	}
	customer = customer.Clone()

	r.seq++
	r.byID[customer.ID] = &memoryRecord{customer: customer, seq: r.seq}
	r.byEmail[customer.Email] = customer.ID

	return customer.Clone(), nil
}

func (r *memoryCustomerRepository) FindAll(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	records := make([]*memoryRecord, 0, len(r.byID))
	for _, rec := range r.byID {
		if search != "" && !strings.Contains(strings.ToLower(rec.customer.SearchText()), search) {
			continue
		}
		records = append(records, rec)
	}

	// newest first; insertion order breaks timestamp ties
	sort.Slice(records, func(i, j int) bool {
		ci, cj := records[i].customer.CreatedAt, records[j].customer.CreatedAt
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return records[i].seq > records[j].seq
	})

	customers := make([]*models.Customer, 0, len(records))
	for _, rec := range records {
		customers = append(customers, rec.customer.Clone())
	}
	return customers, nil
}

func (r *memoryCustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return rec.customer.Clone(), nil
}

func (r *memoryCustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return r.byID[id].customer.Clone(), nil
}

func (r *memoryCustomerRepository) Update(ctx context.Context, id string, input *models.UpdateCustomerInput) (*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, customerNotFound(id)
	}

	if input.Email != nil && *input.Email != rec.customer.Email {
		if owner, taken := r.byEmail[*input.Email]; taken && owner != id {
			return nil, models.ErrConflictWithMsg("Email already exists")
		}
	}

	updated := rec.customer.Clone()
	input.Apply(updated)

	if updated.Email != rec.customer.Email {
		delete(r.byEmail, rec.customer.Email)
		r.byEmail[updated.Email] = id
	}
	rec.customer = updated

	return updated.Clone(), nil
}

func (r *memoryCustomerRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return customerNotFound(id)
	}

	delete(r.byEmail, rec.customer.Email)
	delete(r.byID, id)
	return nil
}
