// Package artifacts tidies the render output location so that each lottery
// and contest keeps a single image.
package artifacts
