package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rdsim/internal/rd"
)

// Profile plots field along row y of a snapshot.
func Profile(s *rd.Slice, field, y, width, height int) string {
	data := make([]float64, s.NX())
	for x := range data {
		data[x] = s.At(field, x, y)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("field %d along x (y=%d)", field, y)),
	)
}

// TracePlot plots a probe time series.
func TracePlot(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
