package filter

import (
	"sync"

	"github.com/gogpu/haloblur/internal/image"
)

// gaussian is a two-pass separable convolution.
// Horizontal results are kept in float32 and rounded once, after the
// vertical pass.
type gaussian struct {
	radius  int
	weights []float32
}

func newGaussian(radius int) *gaussian {
	return &gaussian{radius: radius, weights: CachedRadiusKernel(radius)}
}

func (g *gaussian) reach() int {
	return len(g.weights) / 2
}

func (g *gaussian) apply(dst, src *image.ImageBuf) {
	width, height, ch := src.Width(), src.Height(), src.Channels()

	temp := getTempBuffer(width * height * ch)
	defer putTempBuffer(temp)

	blurHorizontal(src, temp, g.weights)
	blurVertical(temp, dst, g.weights)
}

// blurHorizontal convolves each row of src into temp (row-major, ch samples
// per pixel), replicating the first/last column at the edges.
func blurHorizontal(src *image.ImageBuf, temp []float32, kernel []float32) {
	width, height, ch := src.Width(), src.Height(), src.Channels()
	half := len(kernel) / 2

	var acc [4]float32
	for y := range height {
		row := src.RowBytes(y)
		out := temp[y*width*ch : (y+1)*width*ch]

		for x := range width {
			acc = [4]float32{}
			for k, weight := range kernel {
				kx := clampIndex(x+k-half, width) * ch
				for c := range ch {
					acc[c] += float32(row[kx+c]) * weight
				}
			}
			copy(out[x*ch:x*ch+ch], acc[:ch])
		}
	}
}

// blurVertical convolves each column of temp into dst, replicating the
// first/last row at the edges.
func blurVertical(temp []float32, dst *image.ImageBuf, kernel []float32) {
	width, height, ch := dst.Width(), dst.Height(), dst.Channels()
	half := len(kernel) / 2
	rowLen := width * ch

	for y := range height {
		out := dst.RowBytes(y)

		for i := range rowLen {
			var acc float32
			for k, weight := range kernel {
				ky := clampIndex(y+k-half, height)
				acc += temp[ky*rowLen+i] * weight
			}
			out[i] = clampUint8(acc)
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() interface{} {
		return &floatBuffer{data: make([]float32, 1024*1024*3)}
	},
}

// getTempBuffer returns a scratch buffer of exactly size elements.
// Contents are unspecified; callers overwrite every element.
func getTempBuffer(size int) []float32 {
	wrapper := tempBufferPool.Get().(*floatBuffer)

	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}

	return wrapper.data[:size]
}

// putTempBuffer returns a scratch buffer to the pool.
func putTempBuffer(buf []float32) {
	// Only pool reasonably-sized buffers
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampUint8 clamps a float32 to [0, 255] and rounds to nearest.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
