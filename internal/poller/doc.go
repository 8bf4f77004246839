// Package poller provides the sequential snapshot polling loop for SensorBoard.
//
// A [Poller] fetches one fixed URL, hands the result to a handler on the same
// goroutine, waits a fixed interval and repeats. There is never more than one
// request in flight and failures never end the loop.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with optional timeout and size limits
//   - [Poller]: The fetch, handle, wait loop
//   - [Clock] and [Fetcher]: Injection points for deterministic tests
//   - [Result]: Outcome of a single fetch
//
// Users of the sensorboard library should not need to interact with this
// package directly. Configuration is done through the main sensorboard package.
package poller
