// Package render turns a lottery draw into a branded square image and a
// vertical short video by driving ffmpeg filter graphs. Colors, logos, and
// expected number counts come from the lottery palette; artifact names come
// from ArtifactName so the output reconciler can find them.
package render
