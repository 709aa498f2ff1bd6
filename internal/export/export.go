// Package export renders list snapshots as CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stockdesk/internal/models"
)

// Table is a header plus rows of already formatted cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// ToCSV encodes header and rows as comma separated lines joined by "\n",
// with no trailing newline. Fields containing a comma, quote or line break
// are quoted.
func ToCSV(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return "", fmt.Errorf("csv row %d has %d fields, want %d", i, len(row), len(header))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// CSV encodes the table with ToCSV.
func (t Table) CSV() (string, error) {
	return ToCSV(t.Header, t.Rows)
}

// ProductTable projects products onto the product export columns.
func ProductTable(products []models.Product) Table {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ProductName,
			p.Barcode,
			formatPrice(p.Price),
			strconv.Itoa(p.StockQuantity),
			p.Category,
		})
	}
	return Table{
		Header: []string{"Product Name", "Barcode", "Price", "Stock Quantity", "Category"},
		Rows:   rows,
	}
}

// UserTable projects staff members onto the staff export columns.
// Password hashes are never exported.
func UserTable(users []models.User) Table {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Name, u.Email, u.Role})
	}
	return Table{
		Header: []string{"Name", "Email", "Role"},
		Rows:   rows,
	}
}

// CategoryTable projects categories onto the category export columns.
func CategoryTable(categories []models.Category) Table {
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Name, c.Description, c.CreatedAt.UTC().Format(time.RFC3339)})
	}
	return Table{
		Header: []string{"Name", "Description", "Created At"},
		Rows:   rows,
	}
}

// formatPrice prints the shortest decimal form, so 50 prints as "50".
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
