// Package store holds the rendered display region and fans updates out to
// subscribers.
//
// This package is internal to SensorBoard. The region always holds the last
// successfully rendered frame; a new frame replaces it completely. Connected
// page clients receive every frame via buffered channels with non-blocking
// sends (slow subscribers miss frames rather than block the poll loop).
//
// The main components are:
//
//   - [Store]: Interface defining region and subscription operations
//   - [Display]: In-memory implementation of Store
//   - [Frame]: One rendered version of the region
package store
