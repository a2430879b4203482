// Package viz draws animation frames in the terminal.
//
//   - [Canvas]: Braille sub-pixel canvas
//   - [Preview]: Bubble Tea model playing precomputed frames
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	[ ]   - Step one frame back/forward
//	R     - Rewind to the first frame
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
