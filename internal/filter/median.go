package filter

import "github.com/gogpu/haloblur/internal/image"

// median is a per-channel median over a square window, computed with one
// 256-bin histogram per channel that slides along each row.
type median struct {
	half int
}

// newMedian uses a window side of max(3, 2*radius+1).
func newMedian(radius int) *median {
	side := max(3, 2*radius+1)
	return &median{half: side / 2}
}

func (m *median) reach() int {
	return m.half
}

func (m *median) apply(dst, src *image.ImageBuf) {
	width, height, ch := src.Width(), src.Height(), src.Channels()
	h := m.half
	side := 2*h + 1
	// Index of the median in the sorted window (side*side is odd).
	mid := uint64(side) * uint64(side) / 2

	var hist [4][256]uint64
	rows := make([][]byte, side)

	for y := range height {
		for i := range side {
			rows[i] = src.RowBytes(clampIndex(y-h+i, height))
		}

		for c := range ch {
			clear(hist[c][:])
			for dx := -h; dx <= h; dx++ {
				addColumn(&hist[c], rows, clampIndex(dx, width)*ch+c, 1)
			}
		}

		out := dst.RowBytes(y)
		for x := range width {
			if x > 0 {
				in := clampIndex(x+h, width) * ch
				gone := clampIndex(x-1-h, width) * ch
				for c := range ch {
					addColumn(&hist[c], rows, in+c, 1)
					addColumn(&hist[c], rows, gone+c, -1)
				}
			}
			for c := range ch {
				out[x*ch+c] = histRank(&hist[c], mid)
			}
		}
	}
}

// addColumn adds (delta=1) or removes (delta=-1) one sample per window row.
func addColumn(hist *[256]uint64, rows [][]byte, off int, delta int) {
	for _, row := range rows {
		if delta > 0 {
			hist[row[off]]++
		} else {
			hist[row[off]]--
		}
	}
}

// histRank returns the value at 0-based rank k.
func histRank(hist *[256]uint64, k uint64) uint8 {
	var seen uint64
	for v, n := range hist {
		seen += n
		if seen > k {
			return uint8(v)
		}
	}
	return 255
}
