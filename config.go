package stackfreq

import "fmt"

// Config sizes one counting session. Buckets and Associativity bound the
// resident table at Buckets*Associativity entries; StagingCapacity bounds
// how many spilled entries sit in memory between flushes. All three are
// fixed for the session once the Collector is built.
type Config struct {
	Buckets         int    `koanf:"buckets"`
	Associativity   int    `koanf:"associativity"`
	StagingCapacity int    `koanf:"stagingCapacity"`
	TempDir         string `koanf:"tempDir"` // empty means os.TempDir
}

const (
	DefaultAssociativity = 4

	// Byte budgets behind DefaultConfig: a table that fits comfortably in
	// cache next to the producer, and a staging buffer big enough to make
	// flush writes rare.
	defaultTableBudget   = 1 << 12
	defaultStagingBudget = 1 << 18
)

// DefaultConfig derives table and staging sizes from the default byte
// budgets and the session's record width (KeyCodec Width plus 8 count
// bytes).
func DefaultConfig(recordWidth int) Config {
	return Config{
		Buckets:         BucketsForBudget(defaultTableBudget, recordWidth),
		Associativity:   DefaultAssociativity,
		StagingCapacity: StagingForBudget(defaultStagingBudget, recordWidth),
	}
}

// BucketsForBudget returns the bucket count keeping the resident table
// within budget bytes at the default associativity, at least 1.
func BucketsForBudget(budget, recordWidth int) int {
	n := budget / (recordWidth * DefaultAssociativity)
	if n < 1 {
		n = 1
	}
	return n
}

// StagingForBudget returns the staging capacity keeping the spill buffer
// within budget bytes, at least 1.
func StagingForBudget(budget, recordWidth int) int {
	m := budget / recordWidth
	if m < 1 {
		m = 1
	}
	return m
}

func (c Config) validate() error {
	if c.Buckets < 1 {
		return fmt.Errorf("stackfreq: config: buckets must be >= 1, got %d", c.Buckets)
	}
	if c.Associativity < 1 {
		return fmt.Errorf("stackfreq: config: associativity must be >= 1, got %d", c.Associativity)
	}
	if c.StagingCapacity < 1 {
		return fmt.Errorf("stackfreq: config: stagingCapacity must be >= 1, got %d", c.StagingCapacity)
	}
	return nil
}
