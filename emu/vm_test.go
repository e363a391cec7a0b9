package emu

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeWords(words ...uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func encodeAddImm(rd, rn, imm uint32) uint32 {
	return (condAL << 28) | (1 << 25) | (opADD << 21) | (rn << 16) | (rd << 12) | imm
}

func encodeBX(rm uint32) uint32 {
	return (condAL << 28) | 0x012FFF10 | rm
}

func TestRun_AddImmediateThenReturn(t *testing.T) {
	code := encodeWords(
		encodeAddImm(R0, R0, 5),
		encodeBX(LR),
	)

	result, err := Run(code)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), result)
}

func TestRunAt_StepLimitExceeded(t *testing.T) {
	vm := NewVM()
	vm.StepLimit = 3

	addr, err := vm.Memory.LoadCode(encodeWords(encodeBX(R1)))
	require.NoError(t, err)
	vm.CPU.SetRegister(R1, addr) // branches to itself forever

	_, err = RunAt(vm, addr)
	assert.Error(t, err, "a program that never reaches the halt address must hit the step limit")
}

func TestRun_PushPopRoundTripsThroughStack(t *testing.T) {
	code := encodeWords(
		encodeAddImm(R0, R0, 9),
		encodePushWord(R0),
		encodeAddImm(R0, R0, 100), // clobber r0 before popping it back
		encodePopWord(R0),
		encodeBX(LR),
	)

	result, err := Run(code)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), result, "the popped value should be the one pushed, not the clobbered one")
}
