// Package codegen emits A32 (AArch32, little-endian) machine code for
// the expression tree produced by the parser. isa.go holds the
// primitive instruction-word encoders; compiler.go walks the tree and
// sequences calls to them.
//
// Every instruction is unconditional (condition field 0b1110 = AL):
// the generated function never branches or predicates on flags, so
// there is never a reason to emit anything else.
package codegen

// Bit field positions shared by the A32 encodings used here, named the
// way the ARM architecture reference manual names them.
const (
	condShift = 28
	condAL    = 0xE

	// Data-processing instruction fields (cond 00 I opcode S Rn Rd operand2).
	dpTypeShift = 26
	dpIShift    = 25
	dpOpShift   = 21
	dpSShift    = 20
	dpRnShift   = 16
	dpRdShift   = 12

	opcodeADD = 0x4
	opcodeSUB = 0x2

	// Single data transfer fields (cond 01 I P U B W L Rn Rd offset12).
	sdtTypeShift = 26
	sdtIShift    = 25
	sdtPShift    = 24
	sdtUShift    = 23
	sdtWShift    = 21
	sdtLShift    = 20
	sdtRnShift   = 16
	sdtRdShift   = 12

	regPC = 15
	regSP = 13
)

// encodePush returns STR Rd, [SP, #-4]! — a single-register push onto
// the full-descending stack.
func encodePush(rd uint32) uint32 {
	return (condAL << condShift) |
		(1 << sdtTypeShift) |
		(0 << sdtIShift) | // immediate offset
		(1 << sdtPShift) | // pre-indexed
		(0 << sdtUShift) | // subtract offset
		(1 << sdtWShift) | // writeback
		(0 << sdtLShift) | // store
		(regSP << sdtRnShift) |
		(rd << sdtRdShift) |
		4
}

// encodePop returns LDR Rd, [SP], #4 — a single-register pop.
func encodePop(rd uint32) uint32 {
	return (condAL << condShift) |
		(1 << sdtTypeShift) |
		(0 << sdtIShift) | // immediate offset
		(0 << sdtPShift) | // post-indexed
		(1 << sdtUShift) | // add offset
		(0 << sdtWShift) | // writeback implicit in post-index
		(1 << sdtLShift) | // load
		(regSP << sdtRnShift) |
		(rd << sdtRdShift) |
		4
}

// encodeDataProcessingReg encodes a register-operand2 data processing
// instruction: Rd := Rn <op> Rm, no shift, flags not updated.
func encodeDataProcessingReg(opcode, rd, rn, rm uint32) uint32 {
	return (condAL << condShift) |
		(0 << dpTypeShift) |
		(0 << dpIShift) | // register operand2
		(opcode << dpOpShift) |
		(0 << dpSShift) |
		(rn << dpRnShift) |
		(rd << dpRdShift) |
		rm
}

// encodeAdd returns ADD Rd, Rn, Rm.
func encodeAdd(rd, rn, rm uint32) uint32 {
	return encodeDataProcessingReg(opcodeADD, rd, rn, rm)
}

// encodeSub returns SUB Rd, Rn, Rm.
func encodeSub(rd, rn, rm uint32) uint32 {
	return encodeDataProcessingReg(opcodeSUB, rd, rn, rm)
}

// encodeMul returns MUL Rd, Rm, Rs (Rd := Rm * Rs):
// cond 000000 A S Rd 0000 Rs 1001 Rm.
func encodeMul(rd, rm, rs uint32) uint32 {
	const (
		mulRdShift = 16
		mulRsShift = 8
		mulMarker  = 0x9 // bits 7-4
	)
	return (condAL << condShift) |
		(rd << mulRdShift) |
		(rs << mulRsShift) |
		(mulMarker << 4) |
		rm
}

// encodeBlx returns BLX Rm — branch with link and exchange to the
// address in Rm.
func encodeBlx(rm uint32) uint32 {
	const blxBase = 0x012FFF30
	return (condAL << condShift) | blxBase | rm
}

// encodeImmediateLoad returns the three words that materialize the
// literal K into Rd without a literal pool:
//
//  1. LDR Rd, [PC]        — load the word eight bytes ahead (the
//     architectural PC-is-current+8 bias puts this right after the
//     next instruction).
//  2. ADD PC, PC, #0      — a no-op immediate-form add that advances
//     execution past the inline data word.
//  3. The literal word K itself.
func encodeImmediateLoad(value, rd uint32) [3]uint32 {
	ldrPC := (condAL << condShift) |
		(1 << sdtTypeShift) |
		(0 << sdtIShift) |
		(1 << sdtPShift) |
		(1 << sdtUShift) |
		(0 << sdtWShift) |
		(1 << sdtLShift) |
		(regPC << sdtRnShift) |
		(rd << sdtRdShift) |
		0

	addPCSkip := uint32(condAL<<condShift) |
		(0 << dpTypeShift) |
		(1 << dpIShift) | // immediate operand2, rotate=0 imm8=0
		(opcodeADD << dpOpShift) |
		(0 << dpSShift) |
		(regPC << dpRnShift) |
		(regPC << dpRdShift) |
		0

	return [3]uint32{ldrPC, addPCSkip, value}
}

// encodeAddressLoad returns the words that materialize address A into
// Rd (via encodeImmediateLoad) and then dereference it: LDR Rd, [Rd].
func encodeAddressLoad(addr, rd uint32) [4]uint32 {
	imm := encodeImmediateLoad(addr, rd)
	deref := (condAL << condShift) |
		(1 << sdtTypeShift) |
		(0 << sdtIShift) |
		(1 << sdtPShift) |
		(1 << sdtUShift) |
		(0 << sdtWShift) |
		(1 << sdtLShift) |
		(rd << sdtRnShift) |
		(rd << sdtRdShift) |
		0
	return [4]uint32{imm[0], imm[1], imm[2], deref}
}
