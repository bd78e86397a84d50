package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	got := ConnString(config.DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "restopro", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=restopro sslmode=disable", got)
}

func TestToReviews(t *testing.T) {
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got := toReviews([]reviewRow{
		{Text: sql.NullString{String: "great pizza", Valid: true}, Rating: sql.NullFloat64{Float64: 4.5, Valid: true}, ReviewDate: sql.NullTime{Time: day, Valid: true}},
		{},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "great pizza", got[0].Text)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 4.5, *got[0].Rating)
	require.NotNil(t, got[0].Date)
	assert.Equal(t, day, *got[0].Date)
	assert.Nil(t, got[1].Rating)
	assert.Nil(t, got[1].Date)
}

func TestToSales_SkipsInvalidRows(t *testing.T) {
	got := toSales([]saleRow{
		{Item: sql.NullString{String: " Pizza ", Valid: true}, Qty: sql.NullFloat64{Float64: 3, Valid: true}, Price: sql.NullFloat64{Float64: 9.5, Valid: true}},
		{Item: sql.NullString{String: "Soup", Valid: true}},
		{Item: sql.NullString{String: "Wrap", Valid: true}, Qty: sql.NullFloat64{Float64: -1, Valid: true}},
		{Qty: sql.NullFloat64{Float64: 2, Valid: true}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Pizza", got[0].Item)
	assert.Equal(t, 3, got[0].Quantity)
	assert.Equal(t, 9.5, got[0].UnitPrice)
	assert.True(t, got[0].Date.IsZero())
}

func TestToInventory(t *testing.T) {
	got := toInventory([]inventoryRow{
		{Item: sql.NullString{String: "Flour", Valid: true}, QtyOnHand: sql.NullFloat64{Float64: 12, Valid: true}},
		{Item: sql.NullString{String: "Basil", Valid: true}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Flour", got[0].Item)
	assert.Equal(t, 12.0, got[0].QuantityOnHand)
}
