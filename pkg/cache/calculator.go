// pkg/cache/calculator.go

package cache

import (
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

const (
	// Preference values are a few bytes; keys dominate.
	defaultItemSize      = 256
	defaultMemoryPercent = 0.01
	maxItemsCap          = 100000
)

// CacheSizeCalculator derives a cache bound from available system memory.
type CacheSizeCalculator struct {
	maxMemoryPercent float64
	averageItemSize  uint64
	availableMemory  func() (uint64, error)
}

func NewCacheSizeCalculator() *CacheSizeCalculator {
	return &CacheSizeCalculator{
		maxMemoryPercent: defaultMemoryPercent,
		averageItemSize:  defaultItemSize,
		availableMemory:  systemAvailableMemory,
	}
}

func systemAvailableMemory() (uint64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return v.Available, nil
}

func (c *CacheSizeCalculator) CalculateMaxSize() (int, error) {
	available, err := c.availableMemory()
	if err != nil {
		return 0, err
	}

	maxCacheMemory := uint64(float64(available) * c.maxMemoryPercent)
	maxItems := maxCacheMemory / c.averageItemSize
	if maxItems > maxItemsCap {
		maxItems = maxItemsCap
	}
	return int(maxItems), nil
}

// MaxSizeOr returns the calculated bound, or fallback when memory cannot be
// read or the result is smaller than fallback.
func (c *CacheSizeCalculator) MaxSizeOr(fallback int) int {
	size, err := c.CalculateMaxSize()
	if err != nil {
		logger.WithError(err).Warn("Failed to read system memory, using default cache size")
		return fallback
	}
	if size < fallback {
		return fallback
	}
	return size
}

// EstimatedBytes approximates the memory held by n items.
func (c *CacheSizeCalculator) EstimatedBytes(n int) uint64 {
	return uint64(n) * c.averageItemSize
}
