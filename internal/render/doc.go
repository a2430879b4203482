// Package render draws charts and animation frames to raster and vector
// files and encodes frame sequences as video.
package render
