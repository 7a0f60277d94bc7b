package bench

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot renders the results as a grouped bar chart: one group per
// operation, one bar per structure, mean latency on the Y axis.
func Plot(results []Result, path string) error {
	var ops []string
	opIdx := make(map[string]int)
	var names []string
	nameIdx := make(map[string]int)

	for _, r := range results {
		if _, ok := opIdx[r.Operation]; !ok {
			opIdx[r.Operation] = len(ops)
			ops = append(ops, r.Operation)
		}
		if _, ok := nameIdx[r.Name]; !ok {
			nameIdx[r.Name] = len(names)
			names = append(names, r.Name)
		}
	}

	// values[structure][operation] = latency
	values := make([]plotter.Values, len(names))
	for i := range values {
		values[i] = make(plotter.Values, len(ops))
	}
	for _, r := range results {
		values[nameIdx[r.Name]][opIdx[r.Operation]] = float64(r.LatencyNs)
	}

	p := plot.New()
	p.Title.Text = "Index latency by workload"
	p.Y.Label.Text = "ns/op"

	barWidth := vg.Points(18)
	for i, name := range names {
		bars, err := plotter.NewBarChart(values[i], barWidth)
		if err != nil {
			return fmt.Errorf("bench: plot %s: %w", name, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		bars.Offset = barWidth * vg.Length(i-len(names)/2)
		p.Add(bars)
		p.Legend.Add(name, bars)
	}

	p.Legend.Top = true
	p.NominalX(ops...)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("bench: save plot: %w", err)
	}
	return nil
}
