package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a normalized 1D Gaussian kernel with the given
// sigma and halfSize taps on each side (length 2*halfSize+1).
//
// For sigma <= 0 or halfSize <= 0, returns a single-element kernel [1.0].
func GaussianKernel(sigma float64, halfSize int) []float32 {
	if sigma <= 0 || halfSize <= 0 {
		return []float32{1.0}
	}

	size := halfSize*2 + 1
	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels in normalization.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)
	weights := make([]float64, size)

	for i := range size {
		x := float64(i - halfSize)
		weights[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += weights[i]
	}

	for i, w := range weights {
		kernel[i] = float32(w / sum)
	}

	return kernel
}

// RadiusKernel returns the Gaussian kernel used for a filter radius:
// sigma = radius, truncated at 2*radius taps each side.
func RadiusKernel(radius int) []float32 {
	return GaussianKernel(float64(radius), 2*radius)
}

// kernelCache caches Gaussian kernels by integer radius.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[int][]float32),
		maxLen: maxLen,
	}
}

// get retrieves a kernel from cache or generates and caches it.
// Returned slices are shared and must not be modified.
func (c *kernelCache) get(radius int) []float32 {
	c.mu.RLock()
	if kernel, ok := c.cache[radius]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := RadiusKernel(radius)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Simple eviction: clear half the cache
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[radius] = kernel
	c.mu.Unlock()

	return kernel
}

// len returns the number of cached kernels.
func (c *kernelCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// CachedRadiusKernel returns a cached RadiusKernel.
func CachedRadiusKernel(radius int) []float32 {
	return defaultKernelCache.get(radius)
}
