package render

import (
	"context"
	"path/filepath"
	"strconv"

	"lotoqueue/internal/lottery"
	"lotoqueue/internal/textutil"
)

// Renderer produces the media artifacts for one draw.
type Renderer interface {
	RenderVideo(ctx context.Context, draw lottery.Draw) (string, error)
	RenderImage(ctx context.Context, draw lottery.Draw) (string, error)
}

// ArtifactName returns the file name shared by the renderer and the output
// reconciler: <slug>-<contest>.<ext>, or <slug>-linha-<row>.<ext> when the
// contest cell is empty.
func ArtifactName(draw lottery.Draw, ext string) string {
	slug := lottery.FileSlug(draw.Lottery)
	contest := textutil.SanitizeToken(draw.Contest, "")
	if contest == "" {
		contest = "linha-" + strconv.Itoa(draw.Row)
	}
	return slug + "-" + contest + "." + ext
}

// NumberLines groups drawn numbers for display: seven per line for long
// draws, six otherwise.
func NumberLines(numbers []string) [][]string {
	per := 6
	if len(numbers) > 10 {
		per = 7
	}
	var lines [][]string
	for start := 0; start < len(numbers); start += per {
		end := start + per
		if end > len(numbers) {
			end = len(numbers)
		}
		lines = append(lines, numbers[start:end])
	}
	return lines
}

// DryRun reports the paths a real render would produce without writing files.
type DryRun struct {
	OutputDir string
}

func (d DryRun) RenderVideo(_ context.Context, draw lottery.Draw) (string, error) {
	return filepath.Join(d.OutputDir, "DRYRUN_"+ArtifactName(draw, "mp4")), nil
}

func (d DryRun) RenderImage(_ context.Context, draw lottery.Draw) (string, error) {
	return filepath.Join(d.OutputDir, "DRYRUN_"+ArtifactName(draw, "jpg")), nil
}
