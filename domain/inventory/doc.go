// Package inventory implements the flash-sale workload: a fixed stock of
// one product raced by many concurrent buyers. Stock lives in a versioned
// atomic cell and is deducted through a compare-and-swap loop; every
// successful deduction is recorded in an order ledger guarded by a
// spinlock. The package exercises both core primitives under realistic
// contention and exposes its outcome only through return values — all
// reporting belongs to the harness layer.
package inventory
