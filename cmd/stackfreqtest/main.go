package main

import (
	"flag"
	"math/rand"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/stackfreq"
	"github.com/Meesho/BharatMLStack/stackfreq/pkg/logger"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		configPath string
		numWorkers int
		iterations int64
		stackPool  int
		maxDepth   int
		zipfS      float64
		verify     bool
	)

	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.IntVar(&numWorkers, "workers", 4, "number of workers, one collector each")
	flag.Int64Var(&iterations, "iterations", 10_000_000, "adds per worker")
	flag.IntVar(&stackPool, "stacks", 100_000, "distinct synthetic stacks")
	flag.IntVar(&maxDepth, "max-depth", 24, "maximum frames per synthetic stack")
	flag.Float64Var(&zipfS, "zipf-s", 1.1, "zipf skew of the stack distribution")
	flag.BoolVar(&verify, "verify", false, "check drained sums against a shadow map")
	flag.Parse()

	k := koanf.New(".")
	_ = k.Load(confmap.Provider(map[string]interface{}{
		"logLevel":                  "INFO",
		"collector.buckets":         128,
		"collector.associativity":   stackfreq.DefaultAssociativity,
		"collector.stagingCapacity": 1024,
		"collector.tempDir":         "",
	}, "."), nil)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			log.Fatal().Msgf("Error loading config %s: %v", configPath, err)
		}
	}
	logger.InitLogger(k)

	var cfg stackfreq.Config
	if err := k.Unmarshal("collector", &cfg); err != nil {
		log.Fatal().Msgf("Error unmarshalling collector config: %v", err)
	}

	stacks := synthesizeStacks(stackPool, maxDepth)
	log.Info().Msgf("Starting soak: %d workers, %d adds each, %d distinct stacks, table %dx%d, staging %d",
		numWorkers, iterations, len(stacks), cfg.Buckets, cfg.Associativity, cfg.StagingCapacity)

	results := make([]workerResult, numWorkers)
	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results[id] = runWorker(id, cfg, stacks, iterations, zipfS, verify)
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var total, spilled int64
	merged := map[stackfreq.FrameKey]uint64{}
	ok := true
	for _, r := range results {
		if r.err != nil {
			log.Error().Msgf("Worker failed: %v", r.err)
			ok = false
			continue
		}
		total += r.adds
		spilled += r.spilled
		for key, count := range r.sums {
			merged[key] += count
		}
		if verify && !r.verified {
			ok = false
		}
	}

	log.Info().Msgf("Done in %v: %d adds (%.0f adds/sec), %d distinct stacks drained, %d entries spilled",
		elapsed, total, float64(total)/elapsed.Seconds(), len(merged), spilled)
	if verify {
		if ok {
			log.Info().Msg("Verification passed: drained sums match shadow counts")
		} else {
			log.Fatal().Msg("Verification FAILED")
		}
	}
}

type workerResult struct {
	adds     int64
	spilled  int64
	sums     map[stackfreq.FrameKey]uint64
	verified bool
	err      error
}

func runWorker(id int, cfg stackfreq.Config, stacks []stackfreq.FrameKey, iterations int64, zipfS float64, verify bool) workerResult {
	c, err := stackfreq.New[stackfreq.FrameKey](cfg, stackfreq.HashFrames, stackfreq.FramesCodec{})
	if err != nil {
		return workerResult{err: err}
	}
	defer c.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	zipf := rand.NewZipf(rng, zipfS, 1, uint64(len(stacks)-1))

	var shadow map[stackfreq.FrameKey]uint64
	if verify {
		shadow = make(map[stackfreq.FrameKey]uint64, len(stacks))
	}

	res := workerResult{}
	for i := int64(0); i < iterations; i++ {
		key := stacks[zipf.Uint64()]
		if err := c.Add(key); err != nil {
			// The evicted fragment is gone; in a soak run that is fatal
			// because the verification totals can no longer line up.
			res.err = err
			return res
		}
		if verify {
			shadow[key]++
		}
		res.adds++
	}
	res.spilled = c.Spilled()

	res.sums, res.err = c.Sums()
	if res.err != nil {
		return res
	}
	if verify {
		res.verified = equalSums(res.sums, shadow)
		if !res.verified {
			log.Error().Msgf("Worker %d: drained sums diverge from shadow counts", id)
		}
	}
	return res
}

func equalSums(got, want map[stackfreq.FrameKey]uint64) bool {
	if len(got) != len(want) {
		return false
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

// synthesizeStacks fabricates stable, distinct call-stack identities with
// varying depth.
func synthesizeStacks(n, maxDepth int) []stackfreq.FrameKey {
	if maxDepth > stackfreq.MaxFrames {
		maxDepth = stackfreq.MaxFrames
	}
	rng := rand.New(rand.NewSource(42))
	stacks := make([]stackfreq.FrameKey, n)
	for i := range stacks {
		depth := 1 + rng.Intn(maxDepth)
		stacks[i].Depth = uint8(depth)
		for d := 0; d < depth; d++ {
			stacks[i].Frames[d] = 0x400000 + uint64(rng.Intn(1<<24))
		}
		// A unique trailing frame keeps every synthetic stack distinct.
		stacks[i].Frames[depth-1] = uint64(i) | 1<<40
	}
	return stacks
}
