package main

import (
	"crypto/rand"
	"fmt"

	"github.com/dgrbailey/skiptree"
)

// Builds the same random key/value set into two independent trees, fed
// to TreeBuilder.Set in a different order each time, and checks both
// commits produce the same root id — construction sorts its input, so
// insertion order must not affect the result (spec.md §4.2).
func main() {
	for attempt := 0; ; attempt++ {
		fmt.Println("attempt #", attempt)

		n := 10000
		keys := make([][]byte, n)
		values := make([][]byte, n)
		for i := range keys {
			keys[i] = make([]byte, 31)
			values[i] = make([]byte, 32)
			if _, err := rand.Read(keys[i]); err != nil {
				panic(err)
			}
			if _, err := rand.Read(values[i]); err != nil {
				panic(err)
			}
		}

		storeA := skiptree.NewMemStore(nil)
		builderA := skiptree.NewTreeBuilder(storeA, nil)
		for i := 0; i < n; i++ {
			builderA.Set(keys[i], values[i])
		}
		treeA, err := builderA.Commit()
		if err != nil {
			panic(err)
		}

		storeB := skiptree.NewMemStore(nil)
		builderB := skiptree.NewTreeBuilder(storeB, nil)
		for i := n - 1; i >= 0; i-- {
			builderB.Set(keys[i], values[i])
		}
		treeB, err := builderB.Commit()
		if err != nil {
			panic(err)
		}

		if treeA.Root() != treeB.Root() {
			panic("differing roots for the same key set inserted in different orders")
		}
	}
}
