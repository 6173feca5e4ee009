// Package pipeline implements the filter, join and aggregation stages that
// turn raw order and line-item rows into per-day revenue totals and the
// single day whose refund leaves the smallest remaining total.
//
// Every stage is pure: it consumes the previous stage's output and shares no
// mutable state, so a run can be repeated or discarded wholesale.
package pipeline
