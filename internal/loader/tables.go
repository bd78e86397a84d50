package loader

import (
	"math"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	textColumns     = []string{"text", "review_text", "review", "content", "comment", "message", "description"}
	ratingColumns   = []string{"rating", "stars", "score", "review_rating"}
	reviewDateCols  = []string{"date", "review_date", "created_at", "timestamp"}
	itemColumns     = []string{"item", "item_name", "dish", "product", "menu_item", "name"}
	qtyColumns      = []string{"qty", "quantity", "qty_sold", "units", "units_sold"}
	priceColumns    = []string{"price", "unit_price", "item_price", "amount"}
	saleDateColumns = []string{"date", "sale_date", "order_date", "timestamp"}
	onHandColumns   = []string{"qty_on_hand", "quantity_on_hand", "on_hand", "stock", "qty", "quantity"}
)

// parseReviews maps a review table onto domain reviews. The second return
// value is false when no text column could be detected.
func parseReviews(t *rawTable) ([]domain.Review, bool) {
	idxRating := t.colIndex(ratingColumns...)
	idxDate := t.colIndex(reviewDateCols...)
	idxText := detectTextColumn(t, idxRating, idxDate)

	reviews := make([]domain.Review, 0, len(t.rows))
	for _, row := range t.rows {
		r := domain.Review{Text: t.cell(row, idxText)}
		if v, ok := parseFloat(t.cell(row, idxRating)); ok {
			rating := v
			r.Rating = &rating
		}
		if d, ok := parseDate(t.cell(row, idxDate)); ok {
			date := d
			r.Date = &date
		}
		reviews = append(reviews, r)
	}

	return reviews, idxText >= 0
}

// detectTextColumn tries the known text column names, then falls back to the
// first non-numeric column that is not already used for rating or date.
func detectTextColumn(t *rawTable, exclude ...int) int {
	if idx := t.colIndex(textColumns...); idx >= 0 {
		return idx
	}

	skip := make(map[int]bool, len(exclude))
	for _, i := range exclude {
		skip[i] = true
	}
	for i := range t.header {
		if skip[i] {
			continue
		}
		if !t.isNumericColumn(i) && t.hasValues(i) {
			return i
		}
	}
	return -1
}

func (t *rawTable) hasValues(idx int) bool {
	for _, row := range t.rows {
		if t.cell(row, idx) != "" {
			return true
		}
	}
	return false
}

func parseSales(t *rawTable, name string) []domain.SaleRecord {
	idxItem := t.colIndex(itemColumns...)
	idxQty := t.colIndex(qtyColumns...)
	idxPrice := t.colIndex(priceColumns...)
	idxDate := t.colIndex(saleDateColumns...)

	if idxItem < 0 || idxQty < 0 {
		log.Warn().Str("file", name).Strs("header", t.header).Msg("sales table has no item or quantity column")
		return []domain.SaleRecord{}
	}

	sales := make([]domain.SaleRecord, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		item := t.cell(row, idxItem)
		qty, ok := parseFloat(t.cell(row, idxQty))
		if item == "" || !ok || qty < 0 {
			skipped++
			continue
		}

		record := domain.SaleRecord{
			Item:     item,
			Quantity: int(math.Round(qty)),
		}
		if price, ok := parseFloat(t.cell(row, idxPrice)); ok && price >= 0 {
			record.UnitPrice = price
		}
		if d, ok := parseDate(t.cell(row, idxDate)); ok {
			record.Date = d
		}
		sales = append(sales, record)
	}

	if skipped > 0 {
		log.Warn().Str("file", name).Int("skipped", skipped).Msg("skipped invalid sales rows")
	}
	return sales
}

func parseInventory(t *rawTable, name string) []domain.InventoryItem {
	idxItem := t.colIndex(itemColumns...)
	idxOnHand := t.colIndex(onHandColumns...)

	if idxItem < 0 || idxOnHand < 0 {
		log.Warn().Str("file", name).Strs("header", t.header).Msg("inventory table has no item or on-hand column")
		return []domain.InventoryItem{}
	}

	items := make([]domain.InventoryItem, 0, len(t.rows))
	for _, row := range t.rows {
		item := t.cell(row, idxItem)
		qty, ok := parseFloat(t.cell(row, idxOnHand))
		if item == "" || !ok || qty < 0 {
			continue
		}
		items = append(items, domain.InventoryItem{Item: item, QuantityOnHand: qty})
	}
	return items
}
