package inventory_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestTransfer_EscenarioConservacion(t *testing.T) {
	store := newFaultyStore()
	seed(store, whA, 50, 10, "10")
	seed(store, whB, 5, 0, "20")
	l := newLedger(t, store, inventory.Config{})

	res, err := l.Transfer(context.Background(), inventory.TransferInput{
		ProductID: prodP, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 30, UserID: actor,
		Reason: "reposición", ReferenceNumber: "TRF-9",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF-9", res.ReferenceNumber)
	assert.Equal(t, int64(20), res.Source.Quantity)
	assert.Equal(t, int64(10), res.Source.ReservedQuantity)
	assert.Equal(t, int64(35), res.Destination.Quantity)

	a, b := current(t, store, whA), current(t, store, whB)
	assert.Equal(t, int64(50+5), a.Quantity+b.Quantity, "la suma se conserva")
	assert.True(t, b.AverageCost.Equal(decimal.RequireFromString("11.4286")), "costo destino %s", b.AverageCost)

	txs := store.Transactions()
	require.Len(t, txs, 2)
	byID := map[int64]*entity.TransactionRecord{txs[0].ID: txs[0], txs[1].ID: txs[1]}

	out := byID[res.OutTransactionID]
	require.NotNil(t, out)
	assert.Equal(t, entity.TransactionTypeStockOut, out.Type)
	assert.Equal(t, whA, out.WarehouseID)
	assert.Equal(t, int64(50), out.PreviousQuantity)
	assert.Equal(t, int64(20), out.NewQuantity)
	assert.Equal(t, int64(-30), out.QuantityChanged)

	in := byID[res.InTransactionID]
	require.NotNil(t, in)
	assert.Equal(t, entity.TransactionTypeStockIn, in.Type)
	assert.Equal(t, whB, in.WarehouseID)
	assert.Equal(t, int64(5), in.PreviousQuantity)
	assert.Equal(t, int64(35), in.NewQuantity)

	assert.Equal(t, "TRF-9", out.ReferenceNumber)
	assert.Equal(t, out.ReferenceNumber, in.ReferenceNumber)
	require.NotNil(t, out.UnitCost)
	assert.True(t, out.UnitCost.Equal(*in.UnitCost), "ambas patas al costo promedio del origen")
}

func TestTransfer_CreaDestinoYGeneraReferencia(t *testing.T) {
	store := newFaultyStore()
	seed(store, whA, 8, 0, "4")
	l := newLedger(t, store, inventory.Config{})

	res, err := l.Transfer(context.Background(), inventory.TransferInput{
		ProductID: prodP, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 8, UserID: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF-AUTO", res.ReferenceNumber)

	b := current(t, store, whB)
	require.NotNil(t, b)
	assert.Equal(t, int64(8), b.Quantity)
	assert.Equal(t, int64(1), b.Version)
	assert.True(t, b.AverageCost.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, int64(0), current(t, store, whA).Quantity)

	page, err := store.ListTransactions(context.Background(), repository.TransactionFilter{ReferenceNumber: "TRF-AUTO"})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestTransfer_AtomicidadAnteRechazos(t *testing.T) {
	cases := []struct {
		name string
		in   inventory.TransferInput
		want error
	}{
		{"misma bodega", inventory.TransferInput{FromWarehouseID: whA, ToWarehouseID: whA, Quantity: 1}, domain.ErrInvalidTransfer},
		{"cantidad cero", inventory.TransferInput{FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 0}, domain.ErrInvalidTransfer},
		{"cantidad negativa", inventory.TransferInput{FromWarehouseID: whA, ToWarehouseID: whB, Quantity: -2}, domain.ErrInvalidTransfer},
		{"origen sin registro", inventory.TransferInput{FromWarehouseID: whB, ToWarehouseID: whA, Quantity: 1}, domain.ErrRecordNotFound},
		{"supera lo disponible", inventory.TransferInput{FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 41}, domain.ErrInsufficientAvailableStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFaultyStore()
			seed(store, whA, 50, 10, "10")
			l := newLedger(t, store, inventory.Config{})
			recordsBefore := store.Records()

			in := tc.in
			in.ProductID = prodP
			in.UserID = actor
			_, err := l.Transfer(context.Background(), in)
			require.ErrorIs(t, err, tc.want)

			assert.Equal(t, recordsBefore, store.Records())
			assert.Empty(t, store.Transactions())
			_, commits := store.counts()
			assert.Zero(t, commits)
		})
	}
}

func TestTransfer_InsuficienteReportaDisponible(t *testing.T) {
	store := newFaultyStore()
	seed(store, whA, 50, 10, "10")
	l := newLedger(t, store, inventory.Config{})

	_, err := l.Transfer(context.Background(), inventory.TransferInput{
		ProductID: prodP, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 45, UserID: actor,
	})
	var ins *domain.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, int64(40), ins.Available)
	assert.Equal(t, int64(45), ins.Requested)
}

func TestTransfer_CommitFallidoNoDejaTrasladoParcial(t *testing.T) {
	store := newFaultyStore()
	seed(store, whA, 50, 0, "10")
	seed(store, whB, 5, 0, "10")
	store.commitErrs = []error{fmt.Errorf("%w: conexión perdida", domain.ErrStoreUnavailable)}
	l := newLedger(t, store, inventory.Config{})
	recordsBefore := store.Records()

	_, err := l.Transfer(context.Background(), inventory.TransferInput{
		ProductID: prodP, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 10, UserID: actor,
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, recordsBefore, store.Records())
	assert.Empty(t, store.Transactions())
}

func TestTransfer_EscriturasEnOrdenDeLlave(t *testing.T) {
	store := newFaultyStore()
	seed(store, whA, 10, 0, "1")
	seed(store, whB, 10, 0, "1")
	var keys []entity.InventoryKey
	rec := &recordingStore{InventoryStore: store, onCommit: func(writes []repository.Write) {
		for _, w := range writes {
			if w.Inventory != nil {
				keys = append(keys, w.Inventory.Key())
			}
		}
	}}
	l := newLedger(t, rec, inventory.Config{})

	_, err := l.Transfer(context.Background(), inventory.TransferInput{
		ProductID: prodP, FromWarehouseID: whB, ToWarehouseID: whA, Quantity: 3, UserID: actor,
	})
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.True(t, keys[0].Less(keys[1]), "registros en orden total de llave sin importar la dirección")
}

type recordingStore struct {
	repository.InventoryStore
	onCommit func([]repository.Write)
}

func (s *recordingStore) Commit(ctx context.Context, writes []repository.Write) error {
	s.onCommit(writes)
	return s.InventoryStore.Commit(ctx, writes)
}

func TestTransfer_DesbordeEnDestinoEsTrasladoInvalido(t *testing.T) {
	store := newFaultyStore()
	seed(store, whA, 10, 0, "1")
	seed(store, whB, math.MaxInt64-1, 0, "1")
	l := newLedger(t, store, inventory.Config{})

	_, err := l.Transfer(context.Background(), inventory.TransferInput{
		ProductID: prodP, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 5, UserID: actor,
	})
	var inv *domain.InvalidTransferError
	require.ErrorAs(t, err, &inv)
	assert.True(t, domain.IsBusinessRule(err))
	_, commits := store.counts()
	assert.Zero(t, commits)
	assert.Equal(t, int64(10), current(t, store, whA).Quantity)
	assert.Equal(t, int64(math.MaxInt64-1), current(t, store, whB).Quantity)
}
