package metrics

import (
	"time"

	"frameflow/internal/logging"
)

// MemoryReader reports the system memory currently available for allocation.
type MemoryReader interface {
	Available() (uint64, error)
}

// MemoryReaderFunc adapts a plain function to MemoryReader.
type MemoryReaderFunc func() (uint64, error)

// Available calls f.
func (f MemoryReaderFunc) Available() (uint64, error) {
	return f()
}

// Collector periodically samples system gauges
type Collector struct {
	memory   MemoryReader
	interval time.Duration
	stopChan chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(memory MemoryReader, interval time.Duration) *Collector {
	return &Collector{
		memory:   memory,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.memory == nil {
		return
	}

	available, err := c.memory.Available()
	if err != nil {
		logging.Debug("Metrics collector: failed to read available memory: %v", err)
		return
	}

	MemoryAvailableBytes.Set(float64(available))
	logging.Debug("Metrics collected: available memory=%d bytes", available)
}
