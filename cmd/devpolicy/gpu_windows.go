//go:build windows

package main

import (
	"github.com/born-ml/devpolicy/internal/backend/webgpu"
	"github.com/born-ml/devpolicy/internal/device"
)

// gpus opens the default WebGPU adapter, if any.
func gpus() []device.Info {
	q, err := webgpu.New()
	if err != nil {
		return nil
	}
	defer q.Close()
	return []device.Info{q.Info()}
}
