package pipeline

// Combine joins each order with at most one line item by Order ID. Line
// items are indexed in input order, so when duplicates share an Order ID the
// last one seen wins. An order with no matching line item gets the literal
// price "0". The output is one-to-one with the input orders, in the same
// order.
func Combine(orders, lineItems []Record) []EnrichedOrder {
	byOrder := make(map[string]Record, len(lineItems))
	for _, li := range lineItems {
		if id, ok := li.Get(ColOrderID); ok {
			byOrder[id] = li
		}
	}

	combined := make([]EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		id, _ := o.Get(ColOrderID)
		date, _ := o.Get(ColOrderDate)

		price := "0"
		if li, ok := byOrder[id]; ok {
			// Copy whatever the line item carries, even a blank cell;
			// coercion downstream treats it as 0.
			price, _ = li.Get(ColPrice)
		}

		combined = append(combined, EnrichedOrder{
			OrderID:   id,
			OrderDate: date,
			Price:     price,
		})
	}
	return combined
}
