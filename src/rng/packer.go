package rng

// Packer accumulates parity bits most-significant first into bytes.
type Packer struct {
	acc byte
	n   uint8
}

// Push shifts bit into the low position. On the eighth bit it returns the
// completed byte and resets.
func (p *Packer) Push(bit byte) (byte, bool) {
	p.acc = p.acc<<1 | bit&1
	p.n++
	if p.n < 8 {
		return 0, false
	}
	b := p.acc
	p.Reset()
	return b, true
}

// Pending is the number of bits accumulated toward the next byte.
func (p *Packer) Pending() int { return int(p.n) }

func (p *Packer) Reset() {
	p.acc = 0
	p.n = 0
}
