// pkg/cache/monitor.go

package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

const (
	lowHitRatio   = 0.5
	nearCapacity  = 0.9
	highEvictions = 0.1
)

// CacheMonitor exports LocalCache health as gauges and logs advice when
// the cache is undersized.
type CacheMonitor struct {
	cache      *LocalCache
	calculator *CacheSizeCalculator

	hitRatio    prometheus.Gauge
	cacheSize   prometheus.Gauge
	memoryUsage prometheus.Gauge
}

type CacheStats struct {
	HitRatio         float64   `json:"hit_ratio"`
	Hits             int64     `json:"hits"`
	Misses           int64     `json:"misses"`
	Evictions        int64     `json:"evictions"`
	CurrentSize      int       `json:"current_size"`
	MaxSize          int       `json:"max_size"`
	MemoryUsageBytes uint64    `json:"memory_usage_bytes"`
	LastUpdated      time.Time `json:"last_updated"`
	Recommendations  []string  `json:"recommendations,omitempty"`
}

// NewCacheMonitor registers the cache gauges on reg.
func NewCacheMonitor(cache *LocalCache, calculator *CacheSizeCalculator, reg prometheus.Registerer) *CacheMonitor {
	factory := promauto.With(reg)
	return &CacheMonitor{
		cache:      cache,
		calculator: calculator,
		hitRatio: factory.NewGauge(prometheus.GaugeOpts{
			Name: "preference_cache_hit_ratio",
			Help: "Preference cache hit ratio since start",
		}),
		cacheSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "preference_cache_size",
			Help: "Current number of items in the preference cache",
		}),
		memoryUsage: factory.NewGauge(prometheus.GaugeOpts{
			Name: "preference_cache_memory_usage_bytes",
			Help: "Estimated memory usage of the preference cache",
		}),
	}
}

// Report refreshes the gauges and logs the current stats. It is meant to
// run on a ticker.
func (m *CacheMonitor) Report() {
	stats := m.GetStats()

	m.hitRatio.Set(stats.HitRatio)
	m.cacheSize.Set(float64(stats.CurrentSize))
	m.memoryUsage.Set(float64(stats.MemoryUsageBytes))

	entry := logger.WithFields(logrus.Fields{
		"hit_ratio":    stats.HitRatio,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"evictions":    stats.Evictions,
		"current_size": stats.CurrentSize,
		"max_size":     stats.MaxSize,
	})
	if len(stats.Recommendations) > 0 {
		entry.WithField("recommendations", stats.Recommendations).Warn("Preference cache needs attention")
		return
	}
	entry.Debug("Preference cache performance")
}

func (m *CacheMonitor) GetStats() CacheStats {
	metrics := m.cache.GetMetrics()
	size := m.cache.Len()

	hitRatio := float64(0)
	if total := metrics.Hits + metrics.Misses; total > 0 {
		hitRatio = float64(metrics.Hits) / float64(total)
	}

	return CacheStats{
		HitRatio:         hitRatio,
		Hits:             metrics.Hits,
		Misses:           metrics.Misses,
		Evictions:        metrics.Evictions,
		CurrentSize:      size,
		MaxSize:          m.cache.maxSize,
		MemoryUsageBytes: m.calculator.EstimatedBytes(size),
		LastUpdated:      time.Now(),
		Recommendations:  generateRecommendations(metrics, size, m.cache.maxSize),
	}
}

func generateRecommendations(metrics CacheMetrics, size, maxSize int) []string {
	var recommendations []string

	if total := metrics.Hits + metrics.Misses; total > 0 && float64(metrics.Hits)/float64(total) < lowHitRatio {
		recommendations = append(recommendations,
			"Low cache hit ratio detected. Consider increasing cache size.")
	}

	if float64(size) > float64(maxSize)*nearCapacity {
		recommendations = append(recommendations,
			"Cache is approaching capacity. Consider increasing max size.")
	}

	if size > 0 && float64(metrics.Evictions)/float64(size) > highEvictions {
		recommendations = append(recommendations,
			"High eviction rate detected. Consider increasing cache size.")
	}

	return recommendations
}
