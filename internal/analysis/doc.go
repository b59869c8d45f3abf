// Package analysis reads solver snapshots and probe traces after the fact.
//
//   - [Pulse]: maximum and minimum of a 1D field with their positions
//   - [Maximum]: largest value inside an index window of a cable
//   - [PhasePortrait]: two fields at one probe, recorded every step
//   - [Crossings]: upward threshold crossings at a probe, and the periods
//     between them
//   - [PowerSpectrum], [DominantFrequency]: spectrum of a probe trace
//   - [BifurcationDiagram]: probe values settled into across a parameter sweep
//   - [LyapunovExponent]: divergence rate of a perturbed twin grid
//
// # Pulse Tracking
//
//	p, err := analysis.Pulse(solver.Snapshot(), 0)
//	if err == nil && p.Max > threshold {
//	    fmt.Println("pulse peak at", p.MaxPos)
//	}
//
// Threshold branch positions of a pulse are not computed.
package analysis
