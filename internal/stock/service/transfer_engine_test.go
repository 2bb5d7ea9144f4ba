package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

func newTestTransferEngine(store *memoryStore) *TransferEngine {
	return NewTransferEngine(store, zap.NewNop(), 5*time.Second)
}

func outRequest(sku string, quantity int, source string) dto.ProductTransferRequest {
	return dto.ProductTransferRequest{SKU: sku, Quantity: quantity, SourceStoreID: source}
}

func inRequest(sku string, quantity int, target string) dto.ProductTransferRequest {
	return dto.ProductTransferRequest{SKU: sku, Quantity: quantity, TargetStoreID: target}
}

func TestTransfer_Out_DecrementsAndRecordsMovement(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 20, 5)
	engine := newTestTransferEngine(store)

	ok, err := engine.Transfer(context.Background(), domain.MovementOut, outRequest("SKU-1", 10, "storeA"))
	require.NoError(t, err)
	assert.True(t, ok)

	qty, _ := store.quantity("storeA", "SKU-1")
	assert.Equal(t, 10, qty)

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, domain.MovementOut, m.Type)
	assert.Equal(t, "SKU-1", m.ProductSKU)
	assert.Equal(t, 10, m.Quantity)
	require.NotNil(t, m.SourceStoreID)
	assert.Equal(t, "storeA", *m.SourceStoreID)
	assert.Nil(t, m.TargetStoreID)
	assert.Equal(t, 1, store.commits)
}

func TestTransfer_Out_BelowMinStockIsRejected(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 20, 5)
	engine := newTestTransferEngine(store)
	ctx := context.Background()

	_, err := engine.Transfer(ctx, domain.MovementOut, outRequest("SKU-1", 10, "storeA"))
	require.NoError(t, err)

	ok, err := engine.Transfer(ctx, domain.MovementOut, outRequest("SKU-1", 10, "storeA"))
	assert.False(t, ok)

	is, isInsufficient := apperrors.IsInsufficientStockError(err)
	require.True(t, isInsufficient, "expected InsufficientStockError, got %T", err)
	assert.Equal(t, 10, is.Quantity)
	assert.Equal(t, 5, is.MinStock)
	assert.Contains(t, err.Error(), "'5'")
	assert.Contains(t, err.Error(), "'10'")

	qty, _ := store.quantity("storeA", "SKU-1")
	assert.Equal(t, 10, qty)
	assert.Len(t, store.movements, 1)
	assert.Equal(t, 1, store.commits)
	assert.Equal(t, 1, store.rollbacks)
}

func TestTransfer_Out_ExactlyAtFloorSucceeds(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 20, 5)
	engine := newTestTransferEngine(store)

	ok, err := engine.Transfer(context.Background(), domain.MovementOut, outRequest("SKU-1", 15, "storeA"))
	require.NoError(t, err)
	assert.True(t, ok)

	qty, _ := store.quantity("storeA", "SKU-1")
	assert.Equal(t, 5, qty)
}

func TestTransfer_Out_RepeatedFailureIsIdentical(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 3, 0)
	engine := newTestTransferEngine(store)
	ctx := context.Background()

	_, first := engine.Transfer(ctx, domain.MovementOut, outRequest("SKU-1", 4, "storeA"))
	_, second := engine.Transfer(ctx, domain.MovementOut, outRequest("SKU-1", 4, "storeA"))

	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
	assert.IsType(t, first, second)

	qty, _ := store.quantity("storeA", "SKU-1")
	assert.Equal(t, 3, qty)
	assert.Empty(t, store.movements)
	assert.Equal(t, 0, store.commits)
}

func TestTransfer_Out_MissingInventory(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	engine := newTestTransferEngine(store)

	ok, err := engine.Transfer(context.Background(), domain.MovementOut, outRequest("SKU-1", 1, "storeA"))
	assert.False(t, ok)

	nf, isNotFound := apperrors.IsNotFoundError(err)
	require.True(t, isNotFound)
	assert.Equal(t, "inventory does not exist", nf.Message)
	assert.Empty(t, store.inventory)
	assert.Empty(t, store.movements)
}

func TestTransfer_UnknownProductAbortsEveryKind(t *testing.T) {
	requests := map[domain.MovementType]dto.ProductTransferRequest{
		domain.MovementOut:      outRequest("NOPE", 1, "storeA"),
		domain.MovementIn:       inRequest("NOPE", 1, "storeB"),
		domain.MovementTransfer: {SKU: "NOPE", Quantity: 1, SourceStoreID: "storeA", TargetStoreID: "storeB"},
	}

	for kind, req := range requests {
		t.Run(string(kind), func(t *testing.T) {
			store := newMemoryStore()
			store.setInventory("storeA", "NOPE", 10, 0)
			engine := newTestTransferEngine(store)

			ok, err := engine.Transfer(context.Background(), kind, req)
			assert.False(t, ok)

			nf, isNotFound := apperrors.IsNotFoundError(err)
			require.True(t, isNotFound)
			assert.Equal(t, "product does not exist", nf.Message)

			qty, _ := store.quantity("storeA", "NOPE")
			assert.Equal(t, 10, qty)
			assert.Empty(t, store.movements)
			assert.Equal(t, 0, store.commits)
		})
	}
}

func TestTransfer_In_CreatesMissingInventory(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-2")
	engine := newTestTransferEngine(store)

	ok, err := engine.Transfer(context.Background(), domain.MovementIn, inRequest("SKU-2", 5, "storeB"))
	require.NoError(t, err)
	assert.True(t, ok)

	inv, exists := store.inventory[inventoryKey{"storeB", "SKU-2"}]
	require.True(t, exists)
	assert.Equal(t, 5, inv.Quantity)
	assert.Equal(t, 0, inv.MinStock)

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, domain.MovementIn, m.Type)
	assert.Equal(t, 5, m.Quantity)
	require.NotNil(t, m.TargetStoreID)
	assert.Equal(t, "storeB", *m.TargetStoreID)
	assert.Nil(t, m.SourceStoreID)
}

func TestTransfer_In_IncrementsExistingInventory(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-2")
	store.setInventory("storeB", "SKU-2", 7, 2)
	engine := newTestTransferEngine(store)

	_, err := engine.Transfer(context.Background(), domain.MovementIn, inRequest("SKU-2", 5, "storeB"))
	require.NoError(t, err)

	inv := store.inventory[inventoryKey{"storeB", "SKU-2"}]
	assert.Equal(t, 12, inv.Quantity)
	assert.Equal(t, 2, inv.MinStock)
	assert.Len(t, store.movements, 1)
}

func TestTransfer_BetweenStores_MovesStock(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 20, 5)
	engine := newTestTransferEngine(store)

	req := dto.ProductTransferRequest{SKU: "SKU-1", Quantity: 8, SourceStoreID: "storeA", TargetStoreID: "storeB"}
	ok, err := engine.Transfer(context.Background(), domain.MovementTransfer, req)
	require.NoError(t, err)
	assert.True(t, ok)

	source, _ := store.quantity("storeA", "SKU-1")
	target, exists := store.quantity("storeB", "SKU-1")
	assert.Equal(t, 12, source)
	require.True(t, exists)
	assert.Equal(t, 8, target)

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, domain.MovementTransfer, m.Type)
	assert.Equal(t, "storeA", *m.SourceStoreID)
	assert.Equal(t, "storeB", *m.TargetStoreID)
}

func TestTransfer_BetweenStores_RespectsSourceFloor(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 10, 5)
	store.setInventory("storeB", "SKU-1", 1, 0)
	engine := newTestTransferEngine(store)

	req := dto.ProductTransferRequest{SKU: "SKU-1", Quantity: 6, SourceStoreID: "storeA", TargetStoreID: "storeB"}
	_, err := engine.Transfer(context.Background(), domain.MovementTransfer, req)

	_, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)

	source, _ := store.quantity("storeA", "SKU-1")
	target, _ := store.quantity("storeB", "SKU-1")
	assert.Equal(t, 10, source)
	assert.Equal(t, 1, target)
	assert.Empty(t, store.movements)
}

func TestTransfer_BetweenStores_MissingSource(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeB", "SKU-1", 4, 0)
	engine := newTestTransferEngine(store)

	req := dto.ProductTransferRequest{SKU: "SKU-1", Quantity: 1, SourceStoreID: "storeA", TargetStoreID: "storeB"}
	_, err := engine.Transfer(context.Background(), domain.MovementTransfer, req)

	nf, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "inventory does not exist", nf.Message)
	target, _ := store.quantity("storeB", "SKU-1")
	assert.Equal(t, 4, target)
}

func TestTransfer_BetweenStores_LocksInStoreOrder(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("store-b", "SKU-1", 10, 0)
	store.setInventory("store-a", "SKU-1", 10, 0)
	engine := newTestTransferEngine(store)

	req := dto.ProductTransferRequest{SKU: "SKU-1", Quantity: 3, SourceStoreID: "store-b", TargetStoreID: "store-a"}
	_, err := engine.Transfer(context.Background(), domain.MovementTransfer, req)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(store.locks), 2)
	assert.Equal(t, "store-a", store.locks[0].storeID)
	assert.Equal(t, "store-b", store.locks[1].storeID)
}

func TestTransfer_ValidationHappensBeforeAnyRepositoryCall(t *testing.T) {
	tests := []struct {
		name string
		kind domain.MovementType
		req  dto.ProductTransferRequest
	}{
		{"OUT without source", domain.MovementOut, dto.ProductTransferRequest{SKU: "SKU-1", Quantity: 1}},
		{"IN without target", domain.MovementIn, dto.ProductTransferRequest{SKU: "SKU-1", Quantity: 1}},
		{"TRANSFER without target", domain.MovementTransfer, outRequest("SKU-1", 1, "storeA")},
		{"TRANSFER without source", domain.MovementTransfer, inRequest("SKU-1", 1, "storeB")},
		{"unknown type", domain.MovementType("RETURN"), outRequest("SKU-1", 1, "storeA")},
		{"missing sku", domain.MovementOut, outRequest("", 1, "storeA")},
		{"zero quantity", domain.MovementIn, inRequest("SKU-1", 0, "storeB")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			store.addProduct("SKU-1")
			engine := newTestTransferEngine(store)

			ok, err := engine.Transfer(context.Background(), tt.kind, tt.req)
			assert.False(t, ok)

			_, isValidation := apperrors.IsValidationError(err)
			assert.True(t, isValidation, "expected ValidationError, got %T", err)
			assert.Equal(t, 0, store.begins)
		})
	}
}

func TestTransfer_StorageFailureRollsBack(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 20, 0)
	storageErr := apperrors.NewInternalError("inserting movement", errors.New("connection reset"))
	store.failOn["AppendMovement"] = storageErr
	engine := newTestTransferEngine(store)

	ok, err := engine.Transfer(context.Background(), domain.MovementOut, outRequest("SKU-1", 5, "storeA"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, storageErr)

	qty, _ := store.quantity("storeA", "SKU-1")
	assert.Equal(t, 20, qty)
	assert.Empty(t, store.movements)
	assert.Equal(t, 1, store.rollbacks)
}

func TestTransfer_ConflictIsNotRetried(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.setInventory("storeA", "SKU-1", 20, 0)
	store.failOn["FindInventoryForUpdate"] = apperrors.NewConflictError("concurrent update conflict")
	engine := newTestTransferEngine(store)

	_, err := engine.Transfer(context.Background(), domain.MovementOut, outRequest("SKU-1", 5, "storeA"))

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, store.begins)
}

func TestTransfer_BeginFailure(t *testing.T) {
	store := newMemoryStore()
	store.beginErr = apperrors.NewInternalError("beginning transaction", errors.New("too many connections"))
	engine := newTestTransferEngine(store)

	ok, err := engine.Transfer(context.Background(), domain.MovementIn, inRequest("SKU-1", 1, "storeB"))
	assert.False(t, ok)
	_, isInternal := apperrors.IsInternalError(err)
	assert.True(t, isInternal)
}

func TestTransfer_CommitFailure(t *testing.T) {
	store := newMemoryStore()
	store.addProduct("SKU-1")
	store.commitErr = apperrors.NewConflictError("concurrent update conflict")
	engine := newTestTransferEngine(store)

	ok, err := engine.Transfer(context.Background(), domain.MovementIn, inRequest("SKU-1", 1, "storeB"))
	assert.False(t, ok)
	_, isConflict := apperrors.IsConflictError(err)
	assert.True(t, isConflict)
	assert.Empty(t, store.inventory)
	assert.Empty(t, store.movements)
}
