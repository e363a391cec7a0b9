//go:build !arm

package main

import (
	"fmt"

	"github.com/armjit/exprjit/config"
)

// evaluateHardware is unavailable off ARM hosts: there is no A32 CPU
// to run the generated code on.
func evaluateHardware(cfg *config.Config, expr string, vars map[string]int32) (int32, error) {
	return 0, fmt.Errorf("hardware backend requires an arm target (build with GOARCH=arm); use -backend=emulate")
}
