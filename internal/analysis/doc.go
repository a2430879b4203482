// Package analysis inspects recorded trajectories of a bouncing particle:
//
//   - [PowerSpectrum] and [DominantFrequency]: bounce frequency from the
//     height history
//   - [NewPhasePortrait]: height against vertical velocity
//   - [Apexes]: the top of every bounce
//
// # Bounce Period
//
//	f, err := analysis.DominantFrequency(series.Heights(), dt)
//	if err == nil {
//	    period := 1 / f
//	}
package analysis
