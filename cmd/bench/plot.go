package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// renderPlot draws one grouped bar chart of per-operation latencies, one
// bar group per structure, and saves it as a PNG.
func renderPlot(results []BenchResult, path string) error {
	ops := make([]string, 0)
	structures := make([]string, 0)
	latency := make(map[string]map[string]int64) // structure -> op -> ns

	for _, r := range results {
		if _, ok := latency[r.Name]; !ok {
			latency[r.Name] = make(map[string]int64)
			structures = append(structures, r.Name)
		}
		if _, ok := latency[r.Name][r.Operation]; !ok {
			latency[r.Name][r.Operation] = r.LatencyNs
		}
		if !contains(ops, r.Operation) {
			ops = append(ops, r.Operation)
		}
	}

	p := plot.New()
	p.Title.Text = "Index latency by workload"
	p.Y.Label.Text = "ns/op"

	width := vg.Points(18)
	for si, name := range structures {
		vals := make(plotter.Values, len(ops))
		for oi, op := range ops {
			vals[oi] = float64(latency[name][op])
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return fmt.Errorf("plot %s: %w", name, err)
		}
		bars.Color = plotutil.Color(si)
		bars.Offset = width * vg.Length(si-len(structures)/2)
		p.Add(bars)
		p.Legend.Add(name, bars)
	}
	p.Legend.Top = true
	p.NominalX(ops...)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
