package service

import (
	"context"
	"errors"
	"sync"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

type inventoryKey struct {
	storeID string
	sku     string
}

// memoryStore is a transactional in-memory stand-in for the MySQL unit of
// work. Writes are staged per unit of work and only become visible on Commit.
type memoryStore struct {
	mu        sync.Mutex
	products  map[string]domain.Product
	inventory map[inventoryKey]domain.Inventory
	movements []domain.Movement

	begins    int
	commits   int
	rollbacks int
	locks     []inventoryKey

	beginErr  error
	commitErr error
	failOn    map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products:  map[string]domain.Product{},
		inventory: map[inventoryKey]domain.Inventory{},
		failOn:    map[string]error{},
	}
}

func (s *memoryStore) addProduct(sku string) {
	s.products[sku] = domain.Product{SKU: sku, Name: sku, Category: "Construction"}
}

func (s *memoryStore) setInventory(storeID, sku string, quantity, minStock int) {
	s.inventory[inventoryKey{storeID, sku}] = domain.Inventory{
		ID:         storeID + "/" + sku,
		StoreID:    storeID,
		ProductSKU: sku,
		Quantity:   quantity,
		MinStock:   minStock,
	}
}

func (s *memoryStore) quantity(storeID, sku string) (int, bool) {
	inv, ok := s.inventory[inventoryKey{storeID, sku}]
	return inv.Quantity, ok
}

func (s *memoryStore) Begin(ctx context.Context) (UnitOfWork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.begins++
	if s.beginErr != nil {
		return nil, s.beginErr
	}

	staged := make(map[inventoryKey]domain.Inventory, len(s.inventory))
	for k, v := range s.inventory {
		staged[k] = v
	}
	return &memoryUnitOfWork{store: s, inventory: staged}, nil
}

type memoryUnitOfWork struct {
	store     *memoryStore
	inventory map[inventoryKey]domain.Inventory
	movements []domain.Movement
	done      bool
}

func (u *memoryUnitOfWork) fail(op string) error {
	return u.store.failOn[op]
}

func (u *memoryUnitOfWork) FindProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if err := u.fail("FindProductBySKU"); err != nil {
		return nil, err
	}
	p, ok := u.store.products[sku]
	if !ok {
		return nil, apperrors.NewNotFoundError("product does not exist")
	}
	return &p, nil
}

func (u *memoryUnitOfWork) FindInventoryForUpdate(ctx context.Context, storeID, sku string) (*domain.Inventory, error) {
	u.store.locks = append(u.store.locks, inventoryKey{storeID, sku})
	if err := u.fail("FindInventoryForUpdate"); err != nil {
		return nil, err
	}
	inv, ok := u.inventory[inventoryKey{storeID, sku}]
	if !ok {
		return nil, apperrors.NewNotFoundError("inventory does not exist")
	}
	return &inv, nil
}

func (u *memoryUnitOfWork) DecrementInventory(ctx context.Context, storeID, sku string, amount int) error {
	if err := u.fail("DecrementInventory"); err != nil {
		return err
	}
	key := inventoryKey{storeID, sku}
	inv, ok := u.inventory[key]
	if !ok {
		return apperrors.NewNotFoundError("inventory does not exist")
	}
	inv.Quantity -= amount
	u.inventory[key] = inv
	return nil
}

func (u *memoryUnitOfWork) UpsertInventory(ctx context.Context, storeID, sku string, amount int) error {
	if err := u.fail("UpsertInventory"); err != nil {
		return err
	}
	key := inventoryKey{storeID, sku}
	inv, ok := u.inventory[key]
	if !ok {
		inv = domain.Inventory{ID: storeID + "/" + sku, StoreID: storeID, ProductSKU: sku}
	}
	inv.Quantity += amount
	u.inventory[key] = inv
	return nil
}

func (u *memoryUnitOfWork) AppendMovement(ctx context.Context, m *domain.Movement) error {
	if err := u.fail("AppendMovement"); err != nil {
		return err
	}
	m.ID = uint64(len(u.store.movements) + len(u.movements) + 1)
	u.movements = append(u.movements, *m)
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if u.done {
		return errors.New("unit of work already finished")
	}
	u.done = true

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.commitErr != nil {
		return s.commitErr
	}
	s.commits++
	s.inventory = u.inventory
	s.movements = append(s.movements, u.movements...)
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.store.rollbacks++
	return nil
}
