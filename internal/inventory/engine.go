package inventory

import (
	"fmt"

	"github.com/AnasB0/Resto-Pro/internal/domain"
)

const (
	// NoSalesDays is reported when an item has no positive sales rate.
	NoSalesDays = 999.0

	criticalDays  = 3.0
	warningDays   = 7.0
	overstockDays = 30.0
)

// Engine classifies inventory items by their days of stock cover.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Assess returns one entry per inventory item, in inventory order, including
// items whose tier is None.
func (e *Engine) Assess(inventory []domain.InventoryItem, sales []domain.SaleRecord) []domain.InventoryAlert {
	out := make([]domain.InventoryAlert, 0, len(inventory))
	if len(inventory) == 0 {
		return out
	}

	sold := make(map[string]int)
	for _, s := range sales {
		sold[domain.ItemKey(s.Item)] += s.Quantity
	}

	for _, item := range inventory {
		avgDaily := float64(sold[domain.ItemKey(item.Item)])
		// items with no recorded sales count as selling one unit a day
		if avgDaily == 0 {
			avgDaily = 1
		}

		days := NoSalesDays
		if avgDaily > 0 {
			days = item.QuantityOnHand / avgDaily
		}

		tier := Classify(days)
		out = append(out, domain.InventoryAlert{
			Item:           item.Item,
			Tier:           tier,
			DaysRemaining:  days,
			QuantityOnHand: item.QuantityOnHand,
			AvgDailySales:  avgDaily,
			Message:        message(tier, item.Item, days),
		})
	}

	return out
}

// Alerts returns only the items that need attention.
func (e *Engine) Alerts(inventory []domain.InventoryItem, sales []domain.SaleRecord) []domain.InventoryAlert {
	assessed := e.Assess(inventory, sales)
	alerts := make([]domain.InventoryAlert, 0, len(assessed))
	for _, a := range assessed {
		if a.Tier != domain.TierNone {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// Classify maps days of stock cover to an alert tier. Cover between 7 and
// 30 days inclusive is not flagged.
func Classify(days float64) domain.AlertTier {
	switch {
	case days < criticalDays:
		return domain.TierCritical
	case days < warningDays:
		return domain.TierWarning
	case days > overstockDays:
		return domain.TierOverstock
	default:
		return domain.TierNone
	}
}

func message(tier domain.AlertTier, item string, days float64) string {
	switch tier {
	case domain.TierCritical:
		return fmt.Sprintf("LOW STOCK: %s has only %.1f days of stock remaining", item, days)
	case domain.TierWarning:
		return fmt.Sprintf("REORDER SOON: %s will run out in %.1f days", item, days)
	case domain.TierOverstock:
		return fmt.Sprintf("OVERSTOCK: %s has %.0f days of stock (consider promotion)", item, days)
	default:
		return ""
	}
}
