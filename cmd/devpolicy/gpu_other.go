//go:build !windows

package main

import "github.com/born-ml/devpolicy/internal/device"

// gpus reports no GPU devices: the WebGPU queue is built on windows only.
func gpus() []device.Info {
	return nil
}
