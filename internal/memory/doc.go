// Package memory reports system memory and configures the Go soft memory
// limit.
//
// Available and Snapshot read system memory through gopsutil. The web view
// uses Available to size its decoded-frame cache, and the metrics collector
// samples it periodically.
//
// ConfigureFromEnv derives GOMEMLIMIT from MEMORY_LIMIT and MEMORY_RATIO.
// Whole-file responses are buffered in memory, so a soft limit keeps the
// heap from growing unchecked while large clips are served.
package memory
