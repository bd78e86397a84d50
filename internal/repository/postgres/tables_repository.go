package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	selectReviews   = `SELECT text, rating, review_date FROM reviews ORDER BY id`
	selectSales     = `SELECT item, qty, price, sale_date FROM pos_sales ORDER BY id`
	selectInventory = `SELECT item, qty_on_hand FROM inventory ORDER BY id`

	truncateTables  = `TRUNCATE reviews, pos_sales, inventory RESTART IDENTITY`
	insertReview    = `INSERT INTO reviews (text, rating, review_date) VALUES ($1, $2, $3)`
	insertSale      = `INSERT INTO pos_sales (item, qty, price, sale_date) VALUES ($1, $2, $3, $4)`
	insertInventory = `INSERT INTO inventory (item, qty_on_hand) VALUES ($1, $2)`
)

type reviewRow struct {
	Text       sql.NullString  `db:"text"`
	Rating     sql.NullFloat64 `db:"rating"`
	ReviewDate sql.NullTime    `db:"review_date"`
}

type saleRow struct {
	Item     sql.NullString  `db:"item"`
	Qty      sql.NullFloat64 `db:"qty"`
	Price    sql.NullFloat64 `db:"price"`
	SaleDate sql.NullTime    `db:"sale_date"`
}

type inventoryRow struct {
	Item      sql.NullString  `db:"item"`
	QtyOnHand sql.NullFloat64 `db:"qty_on_hand"`
}

// TablesRepository reads and seeds the analysis input tables. Derived
// results are never stored.
type TablesRepository struct {
	db *DB
}

func NewTablesRepository(db *DB) *TablesRepository {
	return &TablesRepository{db: db}
}

func (r *TablesRepository) LoadTables(ctx context.Context) (domain.Tables, error) {
	var reviews []reviewRow
	var sales []saleRow
	var inventory []inventoryRow

	err := r.db.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &reviews, selectReviews); err != nil {
			return fmt.Errorf("select reviews: %w", err)
		}
		if err := tx.SelectContext(ctx, &sales, selectSales); err != nil {
			return fmt.Errorf("select pos sales: %w", err)
		}
		if err := tx.SelectContext(ctx, &inventory, selectInventory); err != nil {
			return fmt.Errorf("select inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Tables{}, err
	}

	return domain.Tables{
		Reviews:   toReviews(reviews),
		HasText:   true,
		Sales:     toSales(sales),
		Inventory: toInventory(inventory),
	}, nil
}

// ReplaceTables swaps the contents of the input tables for tables in one
// transaction.
func (r *TablesRepository) ReplaceTables(ctx context.Context, tables domain.Tables) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, truncateTables); err != nil {
			return fmt.Errorf("truncate input tables: %w", err)
		}

		for _, rv := range tables.Reviews {
			var date sql.NullTime
			if rv.Date != nil {
				date = sql.NullTime{Time: *rv.Date, Valid: true}
			}
			var rating sql.NullFloat64
			if rv.Rating != nil {
				rating = sql.NullFloat64{Float64: *rv.Rating, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, insertReview, rv.Text, rating, date); err != nil {
				return fmt.Errorf("insert review: %w", err)
			}
		}

		for _, s := range tables.Sales {
			var date sql.NullTime
			if !s.Date.IsZero() {
				date = sql.NullTime{Time: s.Date, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, insertSale, s.Item, s.Quantity, s.UnitPrice, date); err != nil {
				return fmt.Errorf("insert pos sale %s: %w", s.Item, err)
			}
		}

		for _, item := range tables.Inventory {
			if _, err := tx.ExecContext(ctx, insertInventory, item.Item, item.QuantityOnHand); err != nil {
				return fmt.Errorf("insert inventory %s: %w", item.Item, err)
			}
		}

		log.Info().
			Int("reviews", len(tables.Reviews)).
			Int("sales", len(tables.Sales)).
			Int("inventory", len(tables.Inventory)).
			Msg("input tables replaced")
		return nil
	})
}

func toReviews(rows []reviewRow) []domain.Review {
	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		r := domain.Review{Text: row.Text.String}
		if row.Rating.Valid {
			rating := row.Rating.Float64
			r.Rating = &rating
		}
		if row.ReviewDate.Valid {
			date := row.ReviewDate.Time
			r.Date = &date
		}
		out = append(out, r)
	}
	return out
}

func toSales(rows []saleRow) []domain.SaleRecord {
	out := make([]domain.SaleRecord, 0, len(rows))
	for _, row := range rows {
		item := strings.TrimSpace(row.Item.String)
		if item == "" || !row.Qty.Valid || row.Qty.Float64 < 0 {
			continue
		}
		record := domain.SaleRecord{
			Item:     item,
			Quantity: int(math.Round(row.Qty.Float64)),
		}
		if row.Price.Valid && row.Price.Float64 >= 0 {
			record.UnitPrice = row.Price.Float64
		}
		if row.SaleDate.Valid {
			record.Date = row.SaleDate.Time
		}
		out = append(out, record)
	}
	return out
}

func toInventory(rows []inventoryRow) []domain.InventoryItem {
	out := make([]domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item := strings.TrimSpace(row.Item.String)
		if item == "" || !row.QtyOnHand.Valid || row.QtyOnHand.Float64 < 0 {
			continue
		}
		out = append(out, domain.InventoryItem{Item: item, QuantityOnHand: row.QtyOnHand.Float64})
	}
	return out
}
