package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// (10 * 100 + 30 * 200) / 40 = 175
	got := inventory.CostCalculator(10, decimal.NewFromInt(100), 30, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(175)), "costo esperado 175, obtenido %s", got)
}

func TestCostCalculator_SinStockPrevioTomaCostoEntrada(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.NewFromInt(999), 5, decimal.RequireFromString("12.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("12.5")))
}

func TestCostCalculator_SumaNoPositivaRetornaCero(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.NewFromInt(10), 0, decimal.NewFromInt(10))
	assert.True(t, got.IsZero())
}

func TestCostCalculator_RedondeaACuatroDecimales(t *testing.T) {
	// (1 * 1 + 2 * 2) / 3 = 1.6667
	got := inventory.CostCalculator(1, decimal.NewFromInt(1), 2, decimal.NewFromInt(2))
	assert.Equal(t, "1.6667", got.String())
}

func TestCostCalculator_SinStockPrevioTambienRedondea(t *testing.T) {
	// NUMERIC(18,4) en postgres: el almacén en memoria debe guardar lo mismo
	got := inventory.CostCalculator(0, decimal.Zero, 3, decimal.RequireFromString("10.123456"))
	assert.Equal(t, "10.1235", got.String())
}
