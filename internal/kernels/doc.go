// Package kernels builds the device programs behind the execution policy
// algorithms and drives their multi-pass launches on a device.Queue.
//
// Each builder is independent of the policy that selects it, so the two
// branches of every size-dependent dispatch can be exercised on their own:
//
//   - BitonicSort / SequentialSort
//   - TreeReduce / SequentialFold
//   - GroupReduce, Map, Zip, Each, MapReduce
//
// Every kernel carries a host program. Kernels over float32 whose operator is
// a built-in functor also carry a WGSL program for GPU devices.
package kernels
