// Package harness drives the core primitives under contention and tallies
// what happened. Each scenario spawns workers, runs them through repeated
// lock/unlock or load/store/compare-exchange cycles, and returns a Result;
// all output goes through an injected Reporter. The primitives themselves
// never count, print, or log — statistics collection lives entirely here.
package harness
