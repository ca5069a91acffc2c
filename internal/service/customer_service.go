package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Raymond9734/customer-records/internal/cache"
	"github.com/Raymond9734/customer-records/internal/models"
	"github.com/Raymond9734/customer-records/internal/repository"
)

// CustomerService handles customer business logic
type CustomerService interface {
	Create(ctx context.Context, input any) (*models.Customer, error)
	List(ctx context.Context, search string) ([]*models.Customer, error)
	Get(ctx context.Context, id string) (*models.Customer, error)
	Update(ctx context.Context, id string, input any) (*models.Customer, error)
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	listCache    cache.ListCache
	logger       *slog.Logger

	// cacheMu orders list-cache fills against invalidations. generation
	// counts invalidations so a fill that read storage before a mutation
	// is dropped.
	cacheMu    sync.Mutex
	generation uint64
}

// NewCustomerService creates a new customer service. A nil listCache
// disables list caching.
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	listCache cache.ListCache,
	logger *slog.Logger,
) CustomerService {
	if listCache == nil {
		listCache = cache.Nop{}
	}
	return &customerService{
		customerRepo: customerRepo,
		listCache:    listCache,
		logger:       logger,
	}
}

// Create validates input and stores a new customer.
//
// The email check below is read-then-write; two concurrent creates can both
// pass it. The UNIQUE(email) constraint in storage is what finally rejects
// the second write.
func (s *customerService) Create(ctx context.Context, input any) (*models.Customer, error) {
	payload, err := ParseCreateCustomer(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, models.ErrConflictWithMsg(msgEmailExists)
	}

	customer, err := s.customerRepo.Create(ctx, payload)
	if err != nil {
		s.logger.Error("failed to create customer",
			slog.String("email", payload.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.invalidateList()

	s.logger.Info("customer created",
		slog.String("customer_id", customer.ID),
	)

	return customer, nil
}

// List returns customers newest first, optionally filtered by search.
// Results are served from the list cache while fresh.
func (s *customerService) List(ctx context.Context, search string) ([]*models.Customer, error) {
	key := cache.Key(search)
	if customers, ok := s.listCache.Get(key); ok {
		return customers, nil
	}

	gen := s.listGeneration()
	customers, err := s.customerRepo.FindAll(ctx, models.CustomerFilter{Search: key})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	s.storeList(key, customers, gen)

	return customers, nil
}

func (s *customerService) listGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// storeList caches customers unless an invalidation happened after gen was
// taken
func (s *customerService) storeList(key string, customers []*models.Customer, gen uint64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		return
	}
	s.listCache.Set(key, customers)
}

func (s *customerService) invalidateList() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	s.listCache.Clear()
}

// Get retrieves a customer by ID
func (s *customerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf(msgCustomerNotFound, id))
	}

	return customer, nil
}

// Update applies a partial payload to an existing customer
func (s *customerService) Update(ctx context.Context, id string, input any) (*models.Customer, error) {
	payload, err := ParseUpdateCustomer(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Email != nil && *payload.Email != existing.Email {
		owner, err := s.customerRepo.FindByEmail(ctx, *payload.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if owner != nil && owner.ID != id {
			return nil, models.ErrConflictWithMsg(msgEmailExists)
		}
	}

	updated, err := s.customerRepo.Update(ctx, id, payload)
	if err != nil {
		s.logger.Error("failed to update customer",
			slog.String("customer_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	s.invalidateList()

	s.logger.Info("customer updated",
		slog.String("customer_id", id),
	)

	return updated, nil
}

// Delete removes a customer
func (s *customerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete customer",
			slog.String("customer_id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	s.invalidateList()

	s.logger.Info("customer deleted",
		slog.String("customer_id", id),
	)

	return nil
}
