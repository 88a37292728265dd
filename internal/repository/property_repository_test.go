package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnabdutta04/estate-backend/internal/search"
)

func TestRenderPredicatesEmpty(t *testing.T) {
	where, args := renderPredicates(nil)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestRenderPredicatesNumbering(t *testing.T) {
	where, args := renderPredicates([]search.Predicate{
		{Kind: search.KindEqual, Field: "status", Value: "active"},
		{Kind: search.KindAtLeast, Field: "price", Number: 1000},
		{Kind: search.KindBoolTrue, Field: "wifi"}, // без аргумента
		{Kind: search.KindAtMost, Field: "price", Number: 5000},
	})

	assert.Equal(t, " WHERE p.status = $1 AND p.price >= $2 AND p.wifi = TRUE AND p.price <= $3", where)
	require.Len(t, args, 3)
	assert.Equal(t, "active", args[0])
	assert.Equal(t, 1000.0, args[1])
	assert.Equal(t, 5000.0, args[2])
}

func TestRenderPredicatesSubstring(t *testing.T) {
	// Один аргумент на предикат, даже когда полей несколько
	where, args := renderPredicates([]search.Predicate{
		{Kind: search.KindSubstringCI, Fields: []string{"title", "description"}, Value: "lake"},
		{Kind: search.KindSubstringCI, Fields: []string{"city"}, Value: "Dhaka"},
	})

	assert.Equal(t, " WHERE (p.title ILIKE $1 OR p.description ILIKE $1) AND (p.city ILIKE $2)", where)
	require.Len(t, args, 2)
	assert.Equal(t, "%lake%", args[0])
	assert.Equal(t, "%Dhaka%", args[1])
}

func TestRenderPredicatesOneOf(t *testing.T) {
	where, args := renderPredicates([]search.Predicate{
		{Kind: search.KindOneOf, Field: "property_type", Values: []string{"apartment", "house"}},
	})

	assert.Equal(t, " WHERE p.property_type = ANY($1)", where)
	require.Len(t, args, 1)
}

func TestRenderPredicatesValuesNeverInSQL(t *testing.T) {
	// Пользовательское значение попадает только в аргументы
	where, _ := renderPredicates([]search.Predicate{
		{Kind: search.KindEqual, Field: "city", Value: "'; DROP TABLE properties; --"},
	})
	assert.NotContains(t, where, "DROP TABLE")
}
