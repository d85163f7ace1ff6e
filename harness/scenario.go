package harness

// Scenario is one named workload.
type Scenario struct {
	Name string
	Run  func(Config, Reporter) Result
}

// All returns every scenario in a sensible demonstration order: the lock
// first, then the hazard, then the cell that fixes it, then the composed
// workloads.
func All() []Scenario {
	return []Scenario{
		{Name: "spin-counter", Run: SpinCounter},
		{Name: "trylock-race", Run: TryLockRace},
		{Name: "aba-plain", Run: PlainABA},
		{Name: "aba-versioned", Run: VersionedABA},
		{Name: "versioned-counter", Run: VersionedCounter},
		{Name: "fetch-add", Run: FetchAddProgress},
		{Name: "flash-sale", Run: FlashSale},
	}
}
