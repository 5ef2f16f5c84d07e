// Package deps resolves the external binaries the renderer shells out to.
package deps
