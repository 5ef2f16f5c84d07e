// Package textutil holds small string helpers shared by the publisher, the
// uploader, and the renderer: rune-safe truncation, list splitting, and
// filesystem-safe tokens.
package textutil
