package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/dgrbailey/skiptree"
)

func main() {
	benchmarkTreeCommit()
	benchmarkChainAppend()
}

// benchmarkTreeCommit builds a tree from a large random key set and times
// the single Commit call that builds and stores the whole thing, since
// (unlike the teacher's verkle tree) a committed tree here is immutable
// and has no incremental insert to benchmark separately.
func benchmarkTreeCommit() {
	f, _ := os.Create("tree_cpu.prof")
	g, _ := os.Create("tree_mem.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()
	defer func() { _ = pprof.WriteHeapProfile(g) }()

	n := 1000000
	value := []byte("value")

	for i := 0; i < 4; i++ {
		store := skiptree.NewMemStore(nil)
		b := skiptree.NewTreeBuilder(store, nil)
		for j := 0; j < n; j++ {
			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				panic(err)
			}
			b.Set(key, value)
		}
		fmt.Printf("Generated key set %d\n", i)

		start := time.Now()
		if _, err := b.Commit(); err != nil {
			panic(err)
		}
		elapsed := time.Since(start)
		fmt.Printf("Took %v to build and commit a tree of %d leaves\n", elapsed, n)
	}
}

// benchmarkChainAppend times appending a long run of blocks one at a time,
// the operation a skipchain actually supports repeatedly (unlike a tree,
// which is built once).
func benchmarkChainAppend() {
	toAppend := 100000
	payload := []byte("payload")

	store := skiptree.NewMemStore(nil)
	chain := skiptree.NewChain(store, "", nil)

	start := time.Now()
	for i := 0; i < toAppend; i++ {
		b, err := chain.NewBuilder()
		if err != nil {
			panic(err)
		}
		b.Payload = payload
		if _, err := b.Commit(); err != nil {
			panic(err)
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("Took %v to append %d blocks\n", elapsed, toAppend)
}
