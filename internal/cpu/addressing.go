package cpu

// addrMode identifies one of the 6502's addressing modes, used to look up
// the correct resolver in resolve below.
type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeRelative
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndexedIndirectX
	modeIndirectIndexedY
)

// effectiveAddress is what an addressing-mode resolver hands to an
// instruction function: the address to read/write (meaningless for
// modeImplied/modeAccumulator, where the instruction operates on a
// register directly) and whether the resolved address crossed a page
// boundary relative to its base, for the page-cross cycle penalty.
type effectiveAddress struct {
	addr        uint16
	pageCrossed bool
}

func (c *CPU) fetchByte() byte {
	b := c.ReadByte(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(lo) | uint16(hi)<<8
}

// resolve advances PC past the instruction's operand bytes (if any) and
// computes the effective address for mode, per the specification's
// addressing-mode table.
func (c *CPU) resolve(mode addrMode) effectiveAddress {
	switch mode {
	case modeImplied, modeAccumulator:
		return effectiveAddress{}

	case modeImmediate:
		addr := c.PC
		c.PC++
		return effectiveAddress{addr: addr}

	case modeZeroPage:
		return effectiveAddress{addr: uint16(c.fetchByte())}

	case modeZeroPageX:
		return effectiveAddress{addr: uint16(byte(c.fetchByte() + c.X))}

	case modeZeroPageY:
		return effectiveAddress{addr: uint16(byte(c.fetchByte() + c.Y))}

	case modeRelative:
		offset := int8(c.fetchByte())
		base := c.PC
		target := uint16(int32(base) + int32(offset))
		return effectiveAddress{addr: target, pageCrossed: !samePage(base, target)}

	case modeAbsolute:
		return effectiveAddress{addr: c.fetchWord()}

	case modeAbsoluteX:
		base := c.fetchWord()
		addr := base + uint16(c.X)
		return effectiveAddress{addr: addr, pageCrossed: !samePage(base, addr)}

	case modeAbsoluteY:
		base := c.fetchWord()
		addr := base + uint16(c.Y)
		return effectiveAddress{addr: addr, pageCrossed: !samePage(base, addr)}

	case modeIndirect:
		ptr := c.fetchWord()
		// The 6502 page-wrap bug: the high byte is read from
		// (ptr & 0xFF00) | ((ptr+1) & 0xFF), not from ptr+1 if that would
		// cross into the next page.
		lo := c.ReadByte(ptr)
		hi := c.ReadByte((ptr & 0xFF00) | ((ptr + 1) & 0xFF))
		return effectiveAddress{addr: uint16(lo) | uint16(hi)<<8}

	case modeIndexedIndirectX:
		zp := byte(c.fetchByte() + c.X)
		lo := c.ReadByte(uint16(zp))
		hi := c.ReadByte(uint16(byte(zp + 1)))
		return effectiveAddress{addr: uint16(lo) | uint16(hi)<<8}

	case modeIndirectIndexedY:
		zp := c.fetchByte()
		lo := c.ReadByte(uint16(zp))
		hi := c.ReadByte(uint16(byte(zp + 1)))
		base := uint16(lo) | uint16(hi)<<8
		addr := base + uint16(c.Y)
		return effectiveAddress{addr: addr, pageCrossed: !samePage(base, addr)}

	default:
		return effectiveAddress{}
	}
}
