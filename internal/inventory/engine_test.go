package inventory

import (
	"testing"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sales(item string, qtys ...int) []domain.SaleRecord {
	out := make([]domain.SaleRecord, 0, len(qtys))
	for i, q := range qtys {
		out = append(out, domain.SaleRecord{
			Item:     item,
			Quantity: q,
			Date:     time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestEngine_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		onHand   float64
		sales    []domain.SaleRecord
		wantTier domain.AlertTier
		wantDays float64
		wantMsg  string
	}{
		{"critical", 2, sales("cheese", 1), domain.TierCritical, 2, "LOW STOCK: cheese has only 2.0 days of stock remaining"},
		{"warning", 20, sales("cheese", 1, 3), domain.TierWarning, 5, "REORDER SOON: cheese will run out in 5.0 days"},
		{"overstock", 100, sales("cheese", 1), domain.TierOverstock, 100, "OVERSTOCK: cheese has 100 days of stock (consider promotion)"},
		{"healthy", 10, sales("cheese", 1), domain.TierNone, 10, ""},
		{"no sales counts as one a day", 5, nil, domain.TierWarning, 5, "REORDER SOON: cheese will run out in 5.0 days"},
		{"zero sales counts as one a day", 45, sales("cheese", 0, 0), domain.TierOverstock, 45, "OVERSTOCK: cheese has 45 days of stock (consider promotion)"},
		{"empty shelf", 0, sales("cheese", 4), domain.TierCritical, 0, "LOW STOCK: cheese has only 0.0 days of stock remaining"},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Assess([]domain.InventoryItem{{Item: "cheese", QuantityOnHand: tt.onHand}}, tt.sales)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantTier, got[0].Tier)
			assert.InDelta(t, tt.wantDays, got[0].DaysRemaining, 1e-9)
			assert.Equal(t, tt.wantMsg, got[0].Message)
		})
	}
}

func TestEngine_AlertsSkipsHealthyItems(t *testing.T) {
	inventory := []domain.InventoryItem{
		{Item: "Flour", QuantityOnHand: 2},
		{Item: "Tomato", QuantityOnHand: 10},
		{Item: "Basil", QuantityOnHand: 300},
	}
	var records []domain.SaleRecord
	records = append(records, sales("flour", 1)...)
	records = append(records, sales("tomato", 1)...)
	records = append(records, sales("basil", 2)...)

	alerts := NewEngine().Alerts(inventory, records)

	require.Len(t, alerts, 2)
	assert.Equal(t, "Flour", alerts[0].Item)
	assert.Equal(t, domain.TierCritical, alerts[0].Tier)
	assert.Equal(t, "Basil", alerts[1].Item)
	assert.Equal(t, domain.TierOverstock, alerts[1].Tier)
	assert.InDelta(t, 150.0, alerts[1].DaysRemaining, 1e-9)
}

func TestEngine_EmptyInventory(t *testing.T) {
	alerts := NewEngine().Alerts(nil, sales("flour", 5))
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestClassify_Boundaries(t *testing.T) {
	assert.Equal(t, domain.TierCritical, Classify(2.999))
	assert.Equal(t, domain.TierWarning, Classify(3))
	assert.Equal(t, domain.TierWarning, Classify(6.999))
	assert.Equal(t, domain.TierNone, Classify(7))
	assert.Equal(t, domain.TierNone, Classify(30))
	assert.Equal(t, domain.TierOverstock, Classify(30.001))
	assert.Equal(t, domain.TierOverstock, Classify(NoSalesDays))
}
