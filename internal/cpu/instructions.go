package cpu

// instrFunc executes one instruction's behavior given its resolved
// effective address. Implied/accumulator-mode instructions ignore ea.addr
// and operate on registers directly.
type instrFunc func(c *CPU, ea effectiveAddress)

func opLDA(c *CPU, ea effectiveAddress) { c.A = c.ReadByte(ea.addr); c.updateNZ(c.A) }
func opLDX(c *CPU, ea effectiveAddress) { c.X = c.ReadByte(ea.addr); c.updateNZ(c.X) }
func opLDY(c *CPU, ea effectiveAddress) { c.Y = c.ReadByte(ea.addr); c.updateNZ(c.Y) }
func opSTA(c *CPU, ea effectiveAddress) { c.WriteByte(ea.addr, c.A) }
func opSTX(c *CPU, ea effectiveAddress) { c.WriteByte(ea.addr, c.X) }
func opSTY(c *CPU, ea effectiveAddress) { c.WriteByte(ea.addr, c.Y) }

func opTAX(c *CPU, _ effectiveAddress) { c.X = c.A; c.updateNZ(c.X) }
func opTAY(c *CPU, _ effectiveAddress) { c.Y = c.A; c.updateNZ(c.Y) }
func opTXA(c *CPU, _ effectiveAddress) { c.A = c.X; c.updateNZ(c.A) }
func opTYA(c *CPU, _ effectiveAddress) { c.A = c.Y; c.updateNZ(c.A) }
func opTSX(c *CPU, _ effectiveAddress) { c.X = c.SP; c.updateNZ(c.X) }
func opTXS(c *CPU, _ effectiveAddress) { c.SP = c.X }

func opADC(c *CPU, ea effectiveAddress) { c.adc(c.ReadByte(ea.addr)) }
func opSBC(c *CPU, ea effectiveAddress) { c.sbc(c.ReadByte(ea.addr)) }

func opAND(c *CPU, ea effectiveAddress) { c.A &= c.ReadByte(ea.addr); c.updateNZ(c.A) }
func opORA(c *CPU, ea effectiveAddress) { c.A |= c.ReadByte(ea.addr); c.updateNZ(c.A) }
func opEOR(c *CPU, ea effectiveAddress) { c.A ^= c.ReadByte(ea.addr); c.updateNZ(c.A) }

func opBIT(c *CPU, ea effectiveAddress) {
	value := c.ReadByte(ea.addr)
	c.setFlag(ZeroFlag, c.A&value == 0)
	c.setFlag(OverflowFlag, value&0x40 != 0)
	c.setFlag(NegativeFlag, value&0x80 != 0)
}

// makeShift returns an instrFunc for one of ASL/LSR/ROL/ROR, dispatching
// to the accumulator or the bus depending on mode, per the shared
// read-modify-write shape every memory shift instruction uses.
func makeShift(op func(c *CPU, v byte) byte, accumulator bool) instrFunc {
	return func(c *CPU, ea effectiveAddress) {
		if accumulator {
			c.A = op(c, c.A)
			return
		}
		value := c.ReadByte(ea.addr)
		result := op(c, value)
		c.WriteByte(ea.addr, value) // spurious write of the original value
		c.WriteByte(ea.addr, result)
	}
}

var (
	opASLMem = makeShift((*CPU).asl, false)
	opASLAcc = makeShift((*CPU).asl, true)
	opLSRMem = makeShift((*CPU).lsr, false)
	opLSRAcc = makeShift((*CPU).lsr, true)
	opROLMem = makeShift((*CPU).rol, false)
	opROLAcc = makeShift((*CPU).rol, true)
	opRORMem = makeShift((*CPU).ror, false)
	opRORAcc = makeShift((*CPU).ror, true)
)

func opINC(c *CPU, ea effectiveAddress) {
	value := c.ReadByte(ea.addr) + 1
	c.WriteByte(ea.addr, value)
	c.updateNZ(value)
}

func opDEC(c *CPU, ea effectiveAddress) {
	value := c.ReadByte(ea.addr) - 1
	c.WriteByte(ea.addr, value)
	c.updateNZ(value)
}

func opINX(c *CPU, _ effectiveAddress) { c.X++; c.updateNZ(c.X) }
func opINY(c *CPU, _ effectiveAddress) { c.Y++; c.updateNZ(c.Y) }
func opDEX(c *CPU, _ effectiveAddress) { c.X--; c.updateNZ(c.X) }
func opDEY(c *CPU, _ effectiveAddress) { c.Y--; c.updateNZ(c.Y) }

func opCMP(c *CPU, ea effectiveAddress) { c.compare(c.A, c.ReadByte(ea.addr)) }
func opCPX(c *CPU, ea effectiveAddress) { c.compare(c.X, c.ReadByte(ea.addr)) }
func opCPY(c *CPU, ea effectiveAddress) { c.compare(c.Y, c.ReadByte(ea.addr)) }

func opJMP(c *CPU, ea effectiveAddress) { c.PC = ea.addr }

func opJSR(c *CPU, ea effectiveAddress) {
	c.push16(c.PC - 1)
	c.PC = ea.addr
}

func opRTS(c *CPU, _ effectiveAddress) {
	c.PC = c.pop16() + 1
}

func opRTI(c *CPU, _ effectiveAddress) {
	c.P = (c.pop() &^ BreakFlag) | UnusedFlag
	c.PC = c.pop16()
}

func opBRK(c *CPU, _ effectiveAddress) {
	c.PC++ // skip the padding byte
	c.push16(c.PC)
	c.push(c.P | BreakFlag | UnusedFlag)
	c.setFlag(InterruptFlag, true)
	c.PC = c.read16(IRQVector)
}

func opPHA(c *CPU, _ effectiveAddress) { c.push(c.A) }
func opPHP(c *CPU, _ effectiveAddress) { c.push(c.P | BreakFlag | UnusedFlag) }
func opPLA(c *CPU, _ effectiveAddress) { c.A = c.pop(); c.updateNZ(c.A) }
func opPLP(c *CPU, _ effectiveAddress) { c.P = (c.pop() &^ BreakFlag) | UnusedFlag }

func opCLC(c *CPU, _ effectiveAddress) { c.setFlag(CarryFlag, false) }
func opSEC(c *CPU, _ effectiveAddress) { c.setFlag(CarryFlag, true) }
func opCLI(c *CPU, _ effectiveAddress) { c.setFlag(InterruptFlag, false) }
func opSEI(c *CPU, _ effectiveAddress) { c.setFlag(InterruptFlag, true) }
func opCLV(c *CPU, _ effectiveAddress) { c.setFlag(OverflowFlag, false) }
func opCLD(c *CPU, _ effectiveAddress) { c.setFlag(DecimalFlag, false) }
func opSED(c *CPU, _ effectiveAddress) { c.setFlag(DecimalFlag, true) }

func opNOP(c *CPU, _ effectiveAddress) {}

// makeBranch returns an instrFunc that takes the branch iff cond(c.P)
// holds. On a taken branch, PC commits to the resolved relative target
// and the caller charges one extra cycle, or two if the target also
// crosses a page (ea.pageCrossed was computed by the Relative-mode
// resolver against the old PC).
func makeBranch(cond func(p byte) bool) instrFunc {
	return func(c *CPU, ea effectiveAddress) {
		if !cond(c.P) {
			return
		}
		c.PC = ea.addr
		if ea.pageCrossed {
			c.extraCycles = 2
		} else {
			c.extraCycles = 1
		}
	}
}

var (
	opBPL = makeBranch(func(p byte) bool { return p&NegativeFlag == 0 })
	opBMI = makeBranch(func(p byte) bool { return p&NegativeFlag != 0 })
	opBVC = makeBranch(func(p byte) bool { return p&OverflowFlag == 0 })
	opBVS = makeBranch(func(p byte) bool { return p&OverflowFlag != 0 })
	opBCC = makeBranch(func(p byte) bool { return p&CarryFlag == 0 })
	opBCS = makeBranch(func(p byte) bool { return p&CarryFlag != 0 })
	opBNE = makeBranch(func(p byte) bool { return p&ZeroFlag == 0 })
	opBEQ = makeBranch(func(p byte) bool { return p&ZeroFlag != 0 })
)
