// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a host-emulated compute device for execution policies.
//
// # Overview
//
// The CPU queue implements the device interface in pure Go:
//   - Pure Go implementation (no CGO)
//   - Work-groups fan out across goroutines
//   - Any element type, including structs
//   - Optional memory budget for device buffers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/devpolicy/backend/cpu"
//	    "github.com/born-ml/devpolicy/policy"
//	)
//
//	func main() {
//	    q := cpu.New(cpu.WithComputeUnits(4))
//	    defer q.Close()
//
//	    p := policy.New(q)
//	    data := []int32{3, 1, 4, 1, 5, 9, 2, 6}
//	    _ = policy.Sort(p, data)
//	    sum, _ := policy.Reduce(p, data)
//	}
//
// # Thread Safety
//
// A Queue is safe for concurrent use. Submissions from several goroutines
// or policies are serialized in the order they reach the queue.
package cpu
