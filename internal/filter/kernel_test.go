package filter

import (
	"math"
	"testing"
)

func TestGaussianKernelIdentity(t *testing.T) {
	for _, tt := range []struct {
		sigma float64
		half  int
	}{{0, 3}, {-5, 3}, {2, 0}} {
		kernel := GaussianKernel(tt.sigma, tt.half)
		if len(kernel) != 1 || kernel[0] != 1.0 {
			t.Errorf("GaussianKernel(%v, %d) = %v, want [1]", tt.sigma, tt.half, kernel)
		}
	}
}

func TestRadiusKernelSize(t *testing.T) {
	tests := []struct {
		radius   int
		wantSize int
	}{
		{1, 5},   // 2*2+1
		{2, 9},   // 2*4+1
		{5, 21},  // 2*10+1
		{10, 41}, // 2*20+1
	}

	for _, tt := range tests {
		kernel := RadiusKernel(tt.radius)
		if len(kernel) != tt.wantSize {
			t.Errorf("RadiusKernel(%d) len = %d, want %d", tt.radius, len(kernel), tt.wantSize)
		}
	}
}

func TestRadiusKernelNormalized(t *testing.T) {
	for _, r := range []int{1, 2, 3, 5, 10, 20} {
		var sum float32
		for _, v := range RadiusKernel(r) {
			sum += v
		}
		if math.Abs(float64(sum)-1.0) > 0.001 {
			t.Errorf("RadiusKernel(%d) sum = %v, want ~1.0", r, sum)
		}
	}
}

func TestRadiusKernelSymmetricPeak(t *testing.T) {
	kernel := RadiusKernel(5)
	n := len(kernel)
	center := n / 2

	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if absf32(kernel[i]-kernel[j]) > 0.0001 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v (asymmetric)", i, kernel[i], j, kernel[j])
		}
		if kernel[i] > kernel[center] {
			t.Errorf("kernel[%d] = %v exceeds center %v", i, kernel[i], kernel[center])
		}
	}
}

func TestKernelCache(t *testing.T) {
	c := newKernelCache(4)

	a := c.get(3)
	b := c.get(3)
	if &a[0] != &b[0] {
		t.Error("cache should return the same slice for the same radius")
	}

	for r := 1; r <= 10; r++ {
		c.get(r)
	}
	if c.len() > 4 {
		t.Errorf("cache len = %d, want <= 4", c.len())
	}
}

func BenchmarkRadiusKernel(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = RadiusKernel(8)
	}
}

func BenchmarkCachedRadiusKernel(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = CachedRadiusKernel(8)
	}
}
