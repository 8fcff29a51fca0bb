package main

import (
	"encoding/csv"
	"runtime"
	"strconv"
)

// BenchResult is one measured data point; Objects tracks GC pressure.
type BenchResult struct {
	Name      string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

// results accumulates everything written to the CSV so the plot step can
// reuse it without re-parsing the file.
var results []BenchResult

type MemoryStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// GetDetailedMem samples live heap usage after a forced GC, so we measure
// actual live data rather than garbage.
func GetDetailedMem() MemoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

// Record appends one result row to the CSV and to the in-memory set.
func Record(w *csv.Writer, res BenchResult) {
	results = append(results, res)
	w.Write([]string{
		res.Name,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
}
