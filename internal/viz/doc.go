// Package viz draws reaction-diffusion grids in the terminal.
//
//   - [Canvas]: Braille pixel canvas, used for cable traces and for the
//     excited region of a sheet
//   - [Heatmap] and [ColorHeatmap]: shade or themed block rendering of a field
//   - [Profile]: asciigraph line plot of one row
//   - [Model]: Bubble Tea view that steps a solver live
//   - [App]: preset picker that launches a [Model]
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Stimulate
//	R     - Rebuild the initial state
//	V     - Toggle braille view of excited points
//	T     - Cycle color themes
//	?     - Show help
package viz
