package main

import (
	"math/rand"

	"github.com/bindexdb/bindex/dbms/index"
)

type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	OLAP      WorkloadType = "OLAP (10/90)"
	Reporting WorkloadType = "Reporting (Scan)"
)

// writeCursor hands out fresh keys above the preloaded range so that
// duplicate-rejecting indexes accept workload writes. Reset per suite.
var writeCursor uint64

// ExecuteWorkload runs a mixed distribution of ops.
func ExecuteWorkload(idx index.Index, wType WorkloadType, ops int) {
	for i := 0; i < ops; i++ {
		choice := rand.Intn(100)
		key := uint64(rand.Intn(scale)) + 1

		switch wType {
		case OLTP:
			if choice < 90 {
				_, _, _ = idx.Search(key)
			} else {
				_ = idx.Insert(writeCursor, key)
				writeCursor++
			}
		case OLAP:
			if choice < 10 {
				_, _, _ = idx.Search(key)
			} else {
				_ = idx.Insert(writeCursor, key)
				writeCursor++
			}
		case Reporting:
			_, _ = idx.Traverse()
		}
	}
}
