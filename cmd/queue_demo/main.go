package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/zjy-dev/hybrid-fuzz/internal/config"
	"github.com/zjy-dev/hybrid-fuzz/internal/corpus"
	"github.com/zjy-dev/hybrid-fuzz/internal/coverage"
	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

func main() {
	demoDir, err := os.MkdirTemp("", "queue_demo_")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(demoDir)

	fmt.Printf("Demo directory: %s\n\n", demoDir)

	cfg := config.DefaultQueueConfig()
	codec := seed.NewJSONCodec()
	queueDir := filepath.Join(demoDir, "queue")
	snapshot := filepath.Join(demoDir, "rand-favored.json")

	rq, err := corpus.NewRandFuzzQueue(queueDir, snapshot, codec, cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Seeds with overlapping coverage; node sets are faked below.
	inputs := [][]byte{
		[]byte("GET / HTTP/1.1"),
		[]byte("GET /index HTTP/1.1"),
		[]byte("POST / HTTP/1.1"),
		[]byte("GET"),
	}
	nodes := map[string]coverage.NodeSet{}
	nodeSets := []coverage.NodeSet{
		coverage.NewNodeSet("parse", "route"),
		coverage.NewNodeSet("route", "serve"),
		coverage.NewNodeSet("serve"),
		coverage.NewNodeSet("parse"),
	}

	fmt.Println("Enqueueing favored seeds...")
	for i, data := range inputs {
		s := seed.New(data)
		s.Meta.ID = uint64(i + 1)
		nodes[s.Hash()] = nodeSets[i]
		if err := rq.Enqueue(seed.Favored, s); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Printf("favored tier: %d seeds\n\n", rq.FavoredLen())

	fmt.Println("Round-robin fetches (seeds are not consumed):")
	for i := 0; i < 6; i++ {
		_, s, err := rq.Dequeue()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("  fetch %d -> seed %d (%q)\n", i+1, s.Meta.ID, s.Data)
	}

	oracle := coverage.OracleFunc(func(s *seed.Seed) (coverage.NodeSet, error) {
		return nodes[s.Hash()].Clone(), nil
	})

	if rq.TimeToMinimize() {
		fmt.Println("\nCulling redundant seeds...")
		removed, err := rq.Minimize(oracle)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("removed %d, %d survive\n", removed, rq.FavoredLen())
	}

	if err := rq.Save(snapshot); err != nil {
		log.Fatal(err)
	}

	// Reopen against the same directory to show restart behavior.
	rq2, err := corpus.NewRandFuzzQueue(queueDir, snapshot, codec, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nAfter restart: %d favored seeds, %d culled in total\n",
		rq2.FavoredLen(), rq2.RemoveCount())

	fmt.Printf("\nDemo completed! Check directory: %s\n", demoDir)
}
