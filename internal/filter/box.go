package filter

import "github.com/gogpu/haloblur/internal/image"

// box is a square-window mean computed from exact integer running sums.
type box struct {
	radius int
}

func newBox(radius int) *box {
	return &box{radius: radius}
}

func (b *box) reach() int {
	return b.radius
}

func (b *box) apply(dst, src *image.ImageBuf) {
	width, height, ch := src.Width(), src.Height(), src.Channels()
	r := b.radius
	rowLen := width * ch
	side := uint64(2*r + 1)
	area := side * side

	// Sums are uint64: a window of 255s passes 2^32 once r exceeds ~2000.
	// Horizontal window sums, one per sample.
	hsum := make([]uint64, height*rowLen)
	for y := range height {
		row := src.RowBytes(y)
		out := hsum[y*rowLen : (y+1)*rowLen]
		for c := range ch {
			var acc uint64
			for dx := -r; dx <= r; dx++ {
				acc += uint64(row[clampIndex(dx, width)*ch+c])
			}
			out[c] = acc
			for x := 1; x < width; x++ {
				acc += uint64(row[clampIndex(x+r, width)*ch+c])
				acc -= uint64(row[clampIndex(x-1-r, width)*ch+c])
				out[x*ch+c] = acc
			}
		}
	}

	// Vertical sliding sum over the horizontal sums.
	acc := make([]uint64, rowLen)
	for dy := -r; dy <= r; dy++ {
		addRow(acc, hsum, clampIndex(dy, height), rowLen)
	}
	for y := range height {
		if y > 0 {
			addRow(acc, hsum, clampIndex(y+r, height), rowLen)
			subRow(acc, hsum, clampIndex(y-1-r, height), rowLen)
		}
		out := dst.RowBytes(y)
		for i, sum := range acc {
			out[i] = uint8((sum + area/2) / area)
		}
	}
}

func addRow(acc, sums []uint64, y, rowLen int) {
	row := sums[y*rowLen : (y+1)*rowLen]
	for i, v := range row {
		acc[i] += v
	}
}

func subRow(acc, sums []uint64, y, rowLen int) {
	row := sums[y*rowLen : (y+1)*rowLen]
	for i, v := range row {
		acc[i] -= v
	}
}
