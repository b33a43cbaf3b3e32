package cpu

// opcodeEntry is one row of the 256-entry dispatch table: mnemonic (for
// tracing/errors), addressing mode, base cycle cost, and the instruction
// function. A zero-value entry (empty mnemonic) means "no official
// opcode here" and triggers InvalidOpcode.
type opcodeEntry struct {
	mnemonic           string
	mode               addrMode
	cycles             int
	fn                 instrFunc
	pageCrossSensitive bool
}

// pageCrossMnemonics is the exact instruction set the specification
// names as eligible for the indexed-addressing page-cross cycle penalty.
var pageCrossMnemonics = map[string]bool{
	"ADC": true, "AND": true, "CMP": true, "EOR": true,
	"LDA": true, "LDX": true, "LDY": true, "ORA": true, "SBC": true,
}

func pageCrossEligible(mnemonic string, mode addrMode) bool {
	switch mode {
	case modeAbsoluteX, modeAbsoluteY, modeIndirectIndexedY:
		return pageCrossMnemonics[mnemonic]
	default:
		return false
	}
}

// buildOpcodeTable populates the 256-entry dispatch table at construction
// time (never at run time), per the design note to prefer a compile-time
// table over run-time-built dispatch state where the language allows it.
func (c *CPU) buildOpcodeTable() {
	reg := func(opcode byte, mnemonic string, mode addrMode, cycles int, fn instrFunc) {
		c.opcodeTable[opcode] = opcodeEntry{
			mnemonic:           mnemonic,
			mode:               mode,
			cycles:             cycles,
			fn:                 fn,
			pageCrossSensitive: pageCrossEligible(mnemonic, mode),
		}
	}

	// Loads
	reg(0xA9, "LDA", modeImmediate, 2, opLDA)
	reg(0xA5, "LDA", modeZeroPage, 3, opLDA)
	reg(0xB5, "LDA", modeZeroPageX, 4, opLDA)
	reg(0xAD, "LDA", modeAbsolute, 4, opLDA)
	reg(0xBD, "LDA", modeAbsoluteX, 4, opLDA)
	reg(0xB9, "LDA", modeAbsoluteY, 4, opLDA)
	reg(0xA1, "LDA", modeIndexedIndirectX, 6, opLDA)
	reg(0xB1, "LDA", modeIndirectIndexedY, 5, opLDA)

	reg(0xA2, "LDX", modeImmediate, 2, opLDX)
	reg(0xA6, "LDX", modeZeroPage, 3, opLDX)
	reg(0xB6, "LDX", modeZeroPageY, 4, opLDX)
	reg(0xAE, "LDX", modeAbsolute, 4, opLDX)
	reg(0xBE, "LDX", modeAbsoluteY, 4, opLDX)

	reg(0xA0, "LDY", modeImmediate, 2, opLDY)
	reg(0xA4, "LDY", modeZeroPage, 3, opLDY)
	reg(0xB4, "LDY", modeZeroPageX, 4, opLDY)
	reg(0xAC, "LDY", modeAbsolute, 4, opLDY)
	reg(0xBC, "LDY", modeAbsoluteX, 4, opLDY)

	// Stores
	reg(0x85, "STA", modeZeroPage, 3, opSTA)
	reg(0x95, "STA", modeZeroPageX, 4, opSTA)
	reg(0x8D, "STA", modeAbsolute, 4, opSTA)
	reg(0x9D, "STA", modeAbsoluteX, 5, opSTA)
	reg(0x99, "STA", modeAbsoluteY, 5, opSTA)
	reg(0x81, "STA", modeIndexedIndirectX, 6, opSTA)
	reg(0x91, "STA", modeIndirectIndexedY, 6, opSTA)

	reg(0x86, "STX", modeZeroPage, 3, opSTX)
	reg(0x96, "STX", modeZeroPageY, 4, opSTX)
	reg(0x8E, "STX", modeAbsolute, 4, opSTX)

	reg(0x84, "STY", modeZeroPage, 3, opSTY)
	reg(0x94, "STY", modeZeroPageX, 4, opSTY)
	reg(0x8C, "STY", modeAbsolute, 4, opSTY)

	// Register transfers
	reg(0xAA, "TAX", modeImplied, 2, opTAX)
	reg(0xA8, "TAY", modeImplied, 2, opTAY)
	reg(0x8A, "TXA", modeImplied, 2, opTXA)
	reg(0x98, "TYA", modeImplied, 2, opTYA)
	reg(0xBA, "TSX", modeImplied, 2, opTSX)
	reg(0x9A, "TXS", modeImplied, 2, opTXS)

	// Stack
	reg(0x48, "PHA", modeImplied, 3, opPHA)
	reg(0x68, "PLA", modeImplied, 4, opPLA)
	reg(0x08, "PHP", modeImplied, 3, opPHP)
	reg(0x28, "PLP", modeImplied, 4, opPLP)

	// Arithmetic
	reg(0x69, "ADC", modeImmediate, 2, opADC)
	reg(0x65, "ADC", modeZeroPage, 3, opADC)
	reg(0x75, "ADC", modeZeroPageX, 4, opADC)
	reg(0x6D, "ADC", modeAbsolute, 4, opADC)
	reg(0x7D, "ADC", modeAbsoluteX, 4, opADC)
	reg(0x79, "ADC", modeAbsoluteY, 4, opADC)
	reg(0x61, "ADC", modeIndexedIndirectX, 6, opADC)
	reg(0x71, "ADC", modeIndirectIndexedY, 5, opADC)

	reg(0xE9, "SBC", modeImmediate, 2, opSBC)
	reg(0xEB, "SBC", modeImmediate, 2, opSBC) // undocumented alias, per spec
	reg(0xE5, "SBC", modeZeroPage, 3, opSBC)
	reg(0xF5, "SBC", modeZeroPageX, 4, opSBC)
	reg(0xED, "SBC", modeAbsolute, 4, opSBC)
	reg(0xFD, "SBC", modeAbsoluteX, 4, opSBC)
	reg(0xF9, "SBC", modeAbsoluteY, 4, opSBC)
	reg(0xE1, "SBC", modeIndexedIndirectX, 6, opSBC)
	reg(0xF1, "SBC", modeIndirectIndexedY, 5, opSBC)

	// Logical
	reg(0x29, "AND", modeImmediate, 2, opAND)
	reg(0x25, "AND", modeZeroPage, 3, opAND)
	reg(0x35, "AND", modeZeroPageX, 4, opAND)
	reg(0x2D, "AND", modeAbsolute, 4, opAND)
	reg(0x3D, "AND", modeAbsoluteX, 4, opAND)
	reg(0x39, "AND", modeAbsoluteY, 4, opAND)
	reg(0x21, "AND", modeIndexedIndirectX, 6, opAND)
	reg(0x31, "AND", modeIndirectIndexedY, 5, opAND)

	reg(0x09, "ORA", modeImmediate, 2, opORA)
	reg(0x05, "ORA", modeZeroPage, 3, opORA)
	reg(0x15, "ORA", modeZeroPageX, 4, opORA)
	reg(0x0D, "ORA", modeAbsolute, 4, opORA)
	reg(0x1D, "ORA", modeAbsoluteX, 4, opORA)
	reg(0x19, "ORA", modeAbsoluteY, 4, opORA)
	reg(0x01, "ORA", modeIndexedIndirectX, 6, opORA)
	reg(0x11, "ORA", modeIndirectIndexedY, 5, opORA)

	reg(0x49, "EOR", modeImmediate, 2, opEOR)
	reg(0x45, "EOR", modeZeroPage, 3, opEOR)
	reg(0x55, "EOR", modeZeroPageX, 4, opEOR)
	reg(0x4D, "EOR", modeAbsolute, 4, opEOR)
	reg(0x5D, "EOR", modeAbsoluteX, 4, opEOR)
	reg(0x59, "EOR", modeAbsoluteY, 4, opEOR)
	reg(0x41, "EOR", modeIndexedIndirectX, 6, opEOR)
	reg(0x51, "EOR", modeIndirectIndexedY, 5, opEOR)

	reg(0x24, "BIT", modeZeroPage, 3, opBIT)
	reg(0x2C, "BIT", modeAbsolute, 4, opBIT)

	// Shifts / rotates
	reg(0x0A, "ASL", modeAccumulator, 2, opASLAcc)
	reg(0x06, "ASL", modeZeroPage, 5, opASLMem)
	reg(0x16, "ASL", modeZeroPageX, 6, opASLMem)
	reg(0x0E, "ASL", modeAbsolute, 6, opASLMem)
	reg(0x1E, "ASL", modeAbsoluteX, 7, opASLMem)

	reg(0x4A, "LSR", modeAccumulator, 2, opLSRAcc)
	reg(0x46, "LSR", modeZeroPage, 5, opLSRMem)
	reg(0x56, "LSR", modeZeroPageX, 6, opLSRMem)
	reg(0x4E, "LSR", modeAbsolute, 6, opLSRMem)
	reg(0x5E, "LSR", modeAbsoluteX, 7, opLSRMem)

	reg(0x2A, "ROL", modeAccumulator, 2, opROLAcc)
	reg(0x26, "ROL", modeZeroPage, 5, opROLMem)
	reg(0x36, "ROL", modeZeroPageX, 6, opROLMem)
	reg(0x2E, "ROL", modeAbsolute, 6, opROLMem)
	reg(0x3E, "ROL", modeAbsoluteX, 7, opROLMem)

	reg(0x6A, "ROR", modeAccumulator, 2, opRORAcc)
	reg(0x66, "ROR", modeZeroPage, 5, opRORMem)
	reg(0x76, "ROR", modeZeroPageX, 6, opRORMem)
	reg(0x6E, "ROR", modeAbsolute, 6, opRORMem)
	reg(0x7E, "ROR", modeAbsoluteX, 7, opRORMem)

	// Increment / decrement
	reg(0xE6, "INC", modeZeroPage, 5, opINC)
	reg(0xF6, "INC", modeZeroPageX, 6, opINC)
	reg(0xEE, "INC", modeAbsolute, 6, opINC)
	reg(0xFE, "INC", modeAbsoluteX, 7, opINC)

	reg(0xC6, "DEC", modeZeroPage, 5, opDEC)
	reg(0xD6, "DEC", modeZeroPageX, 6, opDEC)
	reg(0xCE, "DEC", modeAbsolute, 6, opDEC)
	reg(0xDE, "DEC", modeAbsoluteX, 7, opDEC)

	reg(0xE8, "INX", modeImplied, 2, opINX)
	reg(0xC8, "INY", modeImplied, 2, opINY)
	reg(0xCA, "DEX", modeImplied, 2, opDEX)
	reg(0x88, "DEY", modeImplied, 2, opDEY)

	// Compares
	reg(0xC9, "CMP", modeImmediate, 2, opCMP)
	reg(0xC5, "CMP", modeZeroPage, 3, opCMP)
	reg(0xD5, "CMP", modeZeroPageX, 4, opCMP)
	reg(0xCD, "CMP", modeAbsolute, 4, opCMP)
	reg(0xDD, "CMP", modeAbsoluteX, 4, opCMP)
	reg(0xD9, "CMP", modeAbsoluteY, 4, opCMP)
	reg(0xC1, "CMP", modeIndexedIndirectX, 6, opCMP)
	reg(0xD1, "CMP", modeIndirectIndexedY, 5, opCMP)

	reg(0xE0, "CPX", modeImmediate, 2, opCPX)
	reg(0xE4, "CPX", modeZeroPage, 3, opCPX)
	reg(0xEC, "CPX", modeAbsolute, 4, opCPX)

	reg(0xC0, "CPY", modeImmediate, 2, opCPY)
	reg(0xC4, "CPY", modeZeroPage, 3, opCPY)
	reg(0xCC, "CPY", modeAbsolute, 4, opCPY)

	// Control flow
	reg(0x4C, "JMP", modeAbsolute, 3, opJMP)
	reg(0x6C, "JMP", modeIndirect, 5, opJMP)
	reg(0x20, "JSR", modeAbsolute, 6, opJSR)
	reg(0x60, "RTS", modeImplied, 6, opRTS)
	reg(0x40, "RTI", modeImplied, 6, opRTI)
	reg(0x00, "BRK", modeImplied, 7, opBRK)

	reg(0x10, "BPL", modeRelative, 2, opBPL)
	reg(0x30, "BMI", modeRelative, 2, opBMI)
	reg(0x50, "BVC", modeRelative, 2, opBVC)
	reg(0x70, "BVS", modeRelative, 2, opBVS)
	reg(0x90, "BCC", modeRelative, 2, opBCC)
	reg(0xB0, "BCS", modeRelative, 2, opBCS)
	reg(0xD0, "BNE", modeRelative, 2, opBNE)
	reg(0xF0, "BEQ", modeRelative, 2, opBEQ)

	// Flags
	reg(0x18, "CLC", modeImplied, 2, opCLC)
	reg(0x38, "SEC", modeImplied, 2, opSEC)
	reg(0x58, "CLI", modeImplied, 2, opCLI)
	reg(0x78, "SEI", modeImplied, 2, opSEI)
	reg(0xB8, "CLV", modeImplied, 2, opCLV)
	reg(0xD8, "CLD", modeImplied, 2, opCLD)
	reg(0xF8, "SED", modeImplied, 2, opSED)

	reg(0xEA, "NOP", modeImplied, 2, opNOP)
}
