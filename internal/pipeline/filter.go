package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// ParseOrderDate reads a DD-MM-YYYY string by splitting it on "-", reversing
// the three parts into YYYY-MM-DD and parsing the result as a calendar date.
// Any other shape fails.
func ParseOrderDate(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("order date %q: want DD-MM-YYYY", s)
	}
	joined := parts[2] + "-" + parts[1] + "-" + parts[0]
	return time.ParseInLocation("2006-01-02", joined, loc)
}

// FilterOrdersByDate keeps the orders whose Order Date parses and falls
// inside the window. Rows with a missing or malformed date are dropped, not
// reported. Input order is preserved.
func FilterOrdersByDate(orders []Record, w Window) []Record {
	kept := make([]Record, 0, len(orders))
	loc := w.Lower.Location()
	for _, o := range orders {
		raw, ok := o.Get(ColOrderDate)
		if !ok {
			continue
		}
		day, err := ParseOrderDate(raw, loc)
		if err != nil {
			continue
		}
		if w.Contains(day) {
			kept = append(kept, o)
		}
	}
	return kept
}

// FilterLineItemsByOrders keeps the line items whose Order ID appears among
// the filtered orders, so no orphan line item survives. Input order is
// preserved.
func FilterLineItemsByOrders(lineItems, filteredOrders []Record) []Record {
	ids := make(map[string]struct{}, len(filteredOrders))
	for _, o := range filteredOrders {
		if id, ok := o.Get(ColOrderID); ok {
			ids[id] = struct{}{}
		}
	}

	kept := make([]Record, 0, len(lineItems))
	for _, li := range lineItems {
		id, ok := li.Get(ColOrderID)
		if !ok {
			continue
		}
		if _, match := ids[id]; match {
			kept = append(kept, li)
		}
	}
	return kept
}
