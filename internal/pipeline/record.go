package pipeline

// Column names fixed by the source tables.
const (
	ColOrderID   = "Order ID"
	ColOrderDate = "Order Date"
	ColPrice     = "Price"
)

// Record is one row of tabular data keyed by the table's header row.
// A column missing from the map was absent in the source row; an empty
// string is a present-but-blank cell.
type Record map[string]string

// Get returns the value of a column and whether the column was present.
func (r Record) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// EnrichedOrder is an order row carrying the price of its matching line
// item. OrderDate is the exact string from the source row, never reparsed.
type EnrichedOrder struct {
	OrderID   string `json:"order_id"`
	OrderDate string `json:"order_date"`
	Price     string `json:"price"`
}
