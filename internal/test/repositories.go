package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// UserRepositoryStub stores accounts in-memory for tests.
type UserRepositoryStub struct {
	mu    sync.Mutex
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers a user unless one already exists with the username.
func (s *UserRepositoryStub) Create(ctx context.Context, username, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Users[username]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{
		ID:           s.Next,
		Username:     username,
		Role:         role,
		Active:       true,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.Next++
	s.Users[username] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByUsername fetches a user by username or returns not found.
func (s *UserRepositoryStub) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.Users[username]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches a user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Count returns the number of stored users.
func (s *UserRepositoryStub) Count(ctx context.Context) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Users), nil
}

// OrderRepositoryStub is an in-memory order store with the same
// transition semantics as the SQL implementation, so use case and
// handler tests exercise real state checks.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	ByID   map[int64]*model.Order
	Next   int64
	Err    error
	NextNo int
}

// NewOrderRepositoryStub constructs the stub with initialized state.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{ByID: make(map[int64]*model.Order), Next: 1}
}

func (s *OrderRepositoryStub) Create(ctx context.Context, draft model.OrderDraft, createdBy int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	order := &model.Order{
		ID:                  s.Next,
		CustomerName:        draft.CustomerName,
		CustomerPhone:       draft.CustomerPhone,
		CustomerAddress:     draft.CustomerAddress,
		PhoneAgreementNotes: draft.PhoneAgreementNotes,
		Status:              model.StatusDraft,
		CreatedBy:           createdBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.Next++
	s.ByID[order.ID] = order
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) List(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, order := range s.ByID {
		if len(statuses) > 0 && !statusIn(order.Status, statuses) {
			continue
		}
		out = append(out, *order)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *OrderRepositoryStub) Update(ctx context.Context, id int64, patch model.OrderPatch, updatedBy int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	applyPatch(order, patch)
	order.UpdatedBy = &updatedBy
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) Transition(ctx context.Context, id int64, from, to model.OrderStatus, updatedBy int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Status != from {
		return nil, domainErrors.Transition("order is not %s", from)
	}
	order.Status = to
	order.UpdatedBy = &updatedBy
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) Confirm(ctx context.Context, id int64, updatedBy int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Status != model.StatusPendingConfirmation {
		return nil, domainErrors.Transition("order not pending confirmation")
	}
	s.NextNo++
	number := s.NextNo
	order.OrderNumber = &number
	order.Status = model.StatusConfirmed
	order.UpdatedBy = &updatedBy
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ByID[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByID, id)
	return nil
}

func (s *OrderRepositoryStub) PhotoFilenames(ctx context.Context) (map[string]struct{}, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{})
	for _, order := range s.ByID {
		if order.MaterialPhoto != "" {
			out[order.MaterialPhoto] = struct{}{}
		}
		if order.FurniturePhoto != "" {
			out[order.FurniturePhoto] = struct{}{}
		}
	}
	return out, nil
}

func statusIn(status model.OrderStatus, set []model.OrderStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func applyPatch(order *model.Order, patch model.OrderPatch) {
	if patch.OrderNumber != nil {
		order.OrderNumber = patch.OrderNumber
	}
	if patch.CustomerName != nil {
		order.CustomerName = *patch.CustomerName
	}
	if patch.CustomerPhone != nil {
		order.CustomerPhone = *patch.CustomerPhone
	}
	if patch.CustomerAddress != nil {
		order.CustomerAddress = *patch.CustomerAddress
	}
	if patch.PhoneAgreementNotes != nil {
		order.PhoneAgreementNotes = *patch.PhoneAgreementNotes
	}
	if patch.CustomerRequirements != nil {
		order.CustomerRequirements = *patch.CustomerRequirements
	}
	if patch.Deadline != nil {
		order.Deadline = patch.Deadline
	}
	if patch.Price != nil {
		order.Price = patch.Price
	}
	if patch.MaterialPhoto != nil {
		order.MaterialPhoto = *patch.MaterialPhoto
	}
	if patch.FurniturePhoto != nil {
		order.FurniturePhoto = *patch.FurniturePhoto
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
}

// PhotoSaverStub records saved photos without touching the filesystem.
type PhotoSaverStub struct {
	mu    sync.Mutex
	Saved []string
	Err   error
}

// Save returns a deterministic stored filename.
func (s *PhotoSaverStub) Save(orderID int64, kind, originalName string, data []byte) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := "stored_" + kind + "_" + originalName
	s.Saved = append(s.Saved, name)
	return name, nil
}

// HistoryRepositoryStub records audit entries in-memory.
type HistoryRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.HistoryEntry
	Err     error
	// Usernames resolves user IDs for ListByOrder, mirroring the SQL join.
	Usernames map[int64]string
}

func (s *HistoryRepositoryStub) Append(ctx context.Context, orderID, userID int64, action string, changes model.FieldChanges) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, model.HistoryEntry{
		ID:           int64(len(s.Entries) + 1),
		OrderID:      orderID,
		UserID:       userID,
		Action:       action,
		FieldChanges: changes,
		Timestamp:    time.Now(),
	})
	return nil
}

func (s *HistoryRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.HistoryEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.HistoryEntry
	for i := len(s.Entries) - 1; i >= 0; i-- {
		entry := s.Entries[i]
		if entry.OrderID != orderID {
			continue
		}
		if name, ok := s.Usernames[entry.UserID]; ok {
			entry.Username = name
		}
		out = append(out, entry)
	}
	return out, nil
}
