package emu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPU_GetRegister_PCBias(t *testing.T) {
	cpu := &CPU{}
	cpu.R[PC] = 0x1000

	assert.Equal(t, uint32(0x1008), cpu.GetRegister(PC), "reading PC should add the pipeline bias")
	assert.Equal(t, uint32(0x1000), cpu.R[PC], "reading PC must not mutate the underlying register")
}

func TestCPU_GetRegister_OrdinaryRegister(t *testing.T) {
	cpu := &CPU{}
	cpu.R[R1] = 42

	assert.Equal(t, uint32(42), cpu.GetRegister(R1))
}

func TestCPU_SetRegister(t *testing.T) {
	cpu := &CPU{}
	cpu.SetRegister(R0, 7)

	assert.Equal(t, uint32(7), cpu.R[R0])
}
