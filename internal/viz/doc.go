// Package viz renders the animation engine in the terminal.
//
// [Model] is a Bubble Tea model that starts the engine from Init and polls a
// snapshot on every frame:
//
//   - the current symbol outline on a braille [Canvas], scaled by the
//     snapshot's scale and tinted with its color faded by opacity
//   - "Time" and "State" readouts for the elapsed counter and phase
//   - a phase progress bar and an opacity history chart
//
// # Key Bindings
//
//	T - Cycle color themes
//	? - Toggle full help
//	Q - Quit (stops the engine)
package viz
