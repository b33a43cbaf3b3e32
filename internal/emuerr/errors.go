// Package emuerr collects the emulator's error taxonomy as concrete,
// field-carrying Go error values rather than ad hoc errors.New strings, so
// callers can errors.Is/errors.As against conditions they need to inspect
// programmatically (the dropped byte, the offending PC and opcode).
package emuerr

import "fmt"

// InvalidArgument reports a null/zero argument or a memory size that is
// required to be a power of two but isn't.
type InvalidArgument struct {
	Reason string
}

func (e InvalidArgument) Error() string { return "invalid argument: " + e.Reason }

// ReadFailed reports that loading a program image failed, either because
// the source could not be read or because a post-load invariant (such as
// PC == base_addr after reset) did not hold.
type ReadFailed struct {
	Reason string
}

func (e ReadFailed) Error() string { return "read failed: " + e.Reason }

// MemoryOverflow reports that a program image does not fit in the
// remaining address space from its requested base address.
type MemoryOverflow struct {
	Base uint16
	Size int
}

func (e MemoryOverflow) Error() string {
	return fmt.Sprintf("memory overflow: %d bytes at base 0x%04X exceeds 0x10000", e.Size, e.Base)
}

// InvalidOpcode reports that the guest executed a byte with no
// corresponding entry in the opcode dispatch table (every byte except the
// documented instruction set and the 0xEB SBC-immediate alias).
type InvalidOpcode struct {
	PC     uint16
	Opcode byte
}

func (e InvalidOpcode) Error() string {
	return fmt.Sprintf("invalid opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// QueueFull reports that a producer's enqueue onto a byte queue was
// rejected because the queue was full. It is returned to the producer
// (e.g. the terminal host's stdin reader); the guest program can never
// observe it directly.
type QueueFull struct {
	Dropped byte
}

func (e QueueFull) Error() string {
	return fmt.Sprintf("queue full: dropped byte 0x%02X", e.Dropped)
}
