package device

// Kernel is a compiled unit of device work.
//
// ID is the kernel identity: every submission sharing an ID must run the same
// program, which devices check by comparing Fingerprint. Host is executed by
// host-emulated devices once per work-group; WGSL is the shader source used by
// GPU devices. Params are passed to the shader as a uniform block.
type Kernel struct {
	ID          string
	Fingerprint string
	Host        func(g Group, args []Memory)
	WGSL        string
	Params      []uint32
}

// NDRange is a one-dimensional launch configuration. N is the logical item
// count; Global is N rounded up to a multiple of Local.
type NDRange struct {
	N      int
	Global int
	Local  int
}

// NewNDRange returns the launch configuration for n items with the given
// work-group size.
func NewNDRange(n, local int) NDRange {
	if local < 1 {
		local = 1
	}
	return NDRange{
		N:      n,
		Global: RoundGlobalSize(max(n, 1), local),
		Local:  local,
	}
}

// Single is the launch configuration of a kernel with a single work item.
func Single() NDRange {
	return NDRange{N: 1, Global: 1, Local: 1}
}

// Groups returns the number of work-groups in the range.
func (nd NDRange) Groups() int {
	if nd.Local < 1 {
		return 0
	}
	return nd.Global / nd.Local
}

// RoundGlobalSize returns the least multiple of local that is >= global.
// global is returned unchanged when it is already a multiple.
func RoundGlobalSize(global, local int) int {
	if local <= 0 || global%local == 0 {
		return global
	}
	return (global/local + 1) * local
}

// Group is the view of one work-group handed to a host kernel.
type Group struct {
	ID     int
	Local  int
	Global int
	N      int
}

// Range returns the half-open interval of global ids owned by the group,
// clipped to the logical item count.
func (g Group) Range() (lo, hi int) {
	lo = min(g.ID*g.Local, g.N)
	hi = min(lo+g.Local, g.N)
	return lo, hi
}
