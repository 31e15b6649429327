package kernels

// WGSL programs. Storage buffers are bound in argument order starting at
// binding 0; the uniform params block follows the last argument.

// bitonicShader is one (k, j) compare-exchange stage of the bitonic network.
const bitonicShader = `
@group(0) @binding(0) var<storage, read_write> data: array<f32>;

struct Params {
    j: u32,
    k: u32,
    n: u32,
}
@group(0) @binding(1) var<uniform> params: Params;

fn less(a: f32, b: f32) -> bool {
    return {{EXPR}};
}

@compute @workgroup_size({{LOCAL}})
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.n) {
        return;
    }
    let l = i ^ params.j;
    if (l <= i) {
        return;
    }
    let x = data[i];
    let y = data[l];
    var swap = false;
    if ((i & params.k) == 0u) {
        swap = less(y, x);
    } else {
        swap = less(x, y);
    }
    if (swap) {
        data[i] = y;
        data[l] = x;
    }
}
`

// groupReduceShader folds each workgroup's slice of input into one partial.
const groupReduceShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> partials: array<f32>;

struct Params {
    n: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

fn combine(a: f32, b: f32) -> f32 {
    return {{EXPR}};
}

@compute @workgroup_size({{LOCAL}})
fn main(
    @builtin(local_invocation_id) local_id: vec3<u32>,
    @builtin(workgroup_id) workgroup_id: vec3<u32>
) {
    if (local_id.x != 0u) {
        return;
    }
    let lo = workgroup_id.x * {{LOCAL}}u;
    let hi = min(lo + {{LOCAL}}u, params.n);
    var acc = input[lo];
    for (var i = lo + 1u; i < hi; i = i + 1u) {
        acc = combine(acc, input[i]);
    }
    partials[workgroup_id.x] = acc;
}
`

// treeReduceShader is one level of the pairwise reduction tree.
const treeReduceShader = `
@group(0) @binding(0) var<storage, read_write> data: array<f32>;

struct Params {
    stride: u32,
    pairs: u32,
}
@group(0) @binding(1) var<uniform> params: Params;

fn combine(a: f32, b: f32) -> f32 {
    return {{EXPR}};
}

@compute @workgroup_size({{LOCAL}})
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.pairs) {
        return;
    }
    let at = i * 2u * params.stride;
    data[at] = combine(data[at], data[at + params.stride]);
}
`

// sequentialFoldShader folds the whole input into init on one invocation.
const sequentialFoldShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    n: u32,
    init: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

fn combine(a: f32, b: f32) -> f32 {
    return {{EXPR}};
}

@compute @workgroup_size({{LOCAL}})
fn main() {
    var acc = bitcast<f32>(params.init);
    for (var i = 0u; i < params.n; i = i + 1u) {
        acc = combine(acc, input[i]);
    }
    result[0] = acc;
}
`

// zipShader applies a binary operator elementwise.
const zipShader = `
@group(0) @binding(0) var<storage, read> a_in: array<f32>;
@group(0) @binding(1) var<storage, read> b_in: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    n: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

fn apply(a: f32, b: f32) -> f32 {
    return {{EXPR}};
}

@compute @workgroup_size({{LOCAL}})
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.n) {
        return;
    }
    result[i] = apply(a_in[i], b_in[i]);
}
`
