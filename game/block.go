// block.go implements temporary cell obstruction used by placement search.

package game

// Block marks roughly half of the empty cells with BlockMark so that a
// placement search is steered away from them. Ships already on the board are
// left alone. If rng is nil, a deterministic hash of the cell index is used.
func (b *Board) Block(rng Rand) {
	b.salt++
	for r := 0; r < b.cfg.rows; r++ {
		for c := 0; c < b.cfg.cols; c++ {
			if b.cells[r][c] != EmptyMark {
				continue
			}
			var roll int
			if rng != nil {
				roll = rng.Intn(2)
			} else {
				roll = int(deterministicU64Fast(uint64(r*MaxCols+c), b.salt) & 1)
			}
			if roll == 0 {
				b.cells[r][c] = BlockMark
			}
		}
	}
}

// Unblock clears every BlockMark.
func (b *Board) Unblock() {
	b.replace(BlockMark, EmptyMark)
}

// deterministicU64Fast is a splitmix64 variant for reproducible fallbacks.
func deterministicU64Fast(a, b uint64) uint64 {
	x := a + b*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
