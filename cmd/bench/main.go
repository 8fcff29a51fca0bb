// Command bench runs insert/lookup/scan workloads against the block-file
// B-tree, the in-memory baseline and Pebble, records per-operation
// latencies to a CSV file and renders them as a bar chart.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bindexdb/bindex/dbms/index"
	"github.com/bindexdb/bindex/dbms/index/btree"
	"github.com/bindexdb/bindex/dbms/index/lsm"
	"github.com/bindexdb/bindex/dbms/index/memindex"
)

const scale = 100000

func main() {
	dir, err := os.MkdirTemp("", "bindex-bench")
	if err != nil {
		log.Fatalf("tempdir: %v", err)
	}
	defer os.RemoveAll(dir)

	f, err := os.Create("bench_results.csv")
	if err != nil {
		log.Fatalf("create csv: %v", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"Structure", "TestType", "LatencyNs", "MemMB", "HeapObjects"})

	bt, err := btree.Create(filepath.Join(dir, "bench.idx"))
	if err != nil {
		log.Fatalf("btree: %v", err)
	}
	runSuite(w, "BTree", bt)

	runSuite(w, "MemIndex", memindex.New())

	ls, err := lsm.Open(filepath.Join(dir, "pebble"))
	if err != nil {
		log.Fatalf("pebble: %v", err)
	}
	runSuite(w, "Pebble", ls)

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("write csv: %v", err)
	}
	if err := renderPlot(results, "bench_results.png"); err != nil {
		log.Fatalf("plot: %v", err)
	}
	fmt.Println("Benchmark complete: bench_results.csv, bench_results.png")
}

func runSuite(w *csv.Writer, name string, idx index.Index) {
	fmt.Printf("Testing %s\n", name)
	defer idx.Close()
	writeCursor = scale + 1

	// 1. Pure insert (initial load).
	start := time.Now()
	for k := uint64(1); k <= scale; k++ {
		if err := idx.Insert(k, k*10); err != nil {
			log.Fatalf("%s: insert %d: %v", name, k, err)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / scale

	stats := GetDetailedMem()
	Record(w, BenchResult{
		Name:      name,
		Operation: "Insert",
		LatencyNs: insertLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	})

	// 2. Read-heavy mix.
	start = time.Now()
	ExecuteWorkload(idx, OLTP, scale/2)
	Record(w, BenchResult{name, "Workload_OLTP", time.Since(start).Nanoseconds() / (scale / 2), GetDetailedMem().AllocMB, 0})

	// 3. Write-heavy mix.
	start = time.Now()
	ExecuteWorkload(idx, OLAP, scale/2)
	Record(w, BenchResult{name, "Workload_OLAP", time.Since(start).Nanoseconds() / (scale / 2), GetDetailedMem().AllocMB, 0})

	// 4. Full ordered scan.
	start = time.Now()
	ExecuteWorkload(idx, Reporting, 10)
	Record(w, BenchResult{name, "Workload_Scan", time.Since(start).Nanoseconds() / 10, GetDetailedMem().AllocMB, 0})
}
