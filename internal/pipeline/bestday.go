package pipeline

// BestDay is the day whose refund minimizes the remaining total, paired with
// that remainder. Refunding a day means zeroing out its whole bucket, so the
// winner is equivalently the day with the largest total.
type BestDay struct {
	Day       string  `json:"day"`
	Remainder float64 `json:"remainder"`
}

// SelectBestDay scans the days in first-seen order and keeps the first day
// whose removal achieves a new strict minimum of the remaining total, so an
// exact tie goes to the earlier day. ok is false when nothing was
// aggregated.
func SelectBestDay(totals *DailyTotals) (BestDay, bool) {
	if totals == nil || totals.Len() == 0 {
		return BestDay{}, false
	}

	sum := totals.Total()
	var best BestDay
	found := false
	for _, day := range totals.Days() {
		remainder := sum - totals.Get(day)
		if !found || remainder < best.Remainder {
			best = BestDay{Day: day, Remainder: remainder}
			found = true
		}
	}
	return best, true
}
