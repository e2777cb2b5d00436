// Package clock provides the schedule-after primitive used by the animation
// engine.
//
//   - [Real]: wall clock backed by time.AfterFunc and time.Ticker
//   - [Manual]: deterministic clock advanced explicitly by the caller
//
// # Ordering
//
// [Manual] fires callbacks synchronously inside [Manual.Advance] in deadline
// order, so a test can step an engine through whole animation cycles without
// sleeping.
package clock
