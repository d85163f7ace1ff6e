// Package memory provides object reuse for the workload layer: a typed
// pool for order allocations and a single-producer single-consumer retire
// ring that carries drained orders back to the pool between runs.
//
// The package is dependency-free. It implements no synchronization logic of
// its own beyond the ring's atomic head/tail; the primitives under test
// live in the spin and vcell packages.
package memory
