// Package lottery holds the draw record, lottery-name normalization, filename
// slugs, and the embedded branding palette shared by rendering and cleanup.
package lottery
