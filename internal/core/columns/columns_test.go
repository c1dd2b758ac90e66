package columns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_Defaults(t *testing.T) {
	m := Defaults().Resolve([]string{"Order ID", "SKU", "Qty", "Item-Price", "cost", "sale_date"})

	require.Equal(t, "Order ID", m.OrderID)
	require.Equal(t, "SKU", m.SKU)
	require.Equal(t, "Qty", m.Quantity)
	require.Equal(t, "Item-Price", m.SaleAmount)
	require.Equal(t, "cost", m.PurchaseAmount)
	require.Equal(t, "", m.Title)
}

func TestResolve_MissingColumnsStayEmpty(t *testing.T) {
	m := Defaults().Resolve([]string{"sale_date", "notes"})
	require.Equal(t, Map{}, m)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), a)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "columns.yaml")
	body := "sku:\n  - artikelnummer\nquantity:\n  - menge\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	a, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, []string{"artikelnummer"}, a.SKU)
	require.Equal(t, []string{"menge"}, a.Quantity)
	// Untouched fields keep their built-in aliases.
	require.Equal(t, Defaults().OrderID, a.OrderID)

	m := a.Resolve([]string{"Artikelnummer", "Menge", "order_id"})
	require.Equal(t, "Artikelnummer", m.SKU)
	require.Equal(t, "Menge", m.Quantity)
	require.Equal(t, "order_id", m.OrderID)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sku: {not: [a, list"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}
