// Package artifact persists run outputs to the local filesystem.
//
// A Store hooks the runner's observer seam and writes one directory per
// run: the rendered prompt and result of every node, and the full run
// result. The runner core never imports this package; wiring happens
// where the runner is assembled.
package artifact
