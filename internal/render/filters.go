package render

import (
	"fmt"
	"strings"
)

// escapeFilterText escapes s for a drawtext option value embedded in a
// filtergraph: once for the option parser, once for the graph parser.
func escapeFilterText(s string) string {
	return escapeLevel(escapeLevel(s, `':`), `',;[]`)
}

func escapeLevel(s, special string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if r == '\\' || strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ffmpegColor converts "#RRGGBB" into ffmpeg's 0xRRGGBB form.
func ffmpegColor(hex string) string {
	hex = strings.TrimSpace(hex)
	if strings.HasPrefix(hex, "#") {
		return "0x" + hex[1:]
	}
	return hex
}

type textLine struct {
	text  string
	size  int
	color string
	y     string
}

func drawText(font string, line textLine) string {
	return fmt.Sprintf("drawtext=fontfile=%s:expansion=none:text=%s:fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=%s",
		escapeFilterText(font), escapeFilterText(line.text), line.size, line.color, line.y)
}

func drawTextChain(font string, lines []textLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.text) == "" {
			continue
		}
		parts = append(parts, drawText(font, line))
	}
	return strings.Join(parts, ",")
}
