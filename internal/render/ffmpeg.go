package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lotoqueue/internal/config"
	"lotoqueue/internal/deps"
	"lotoqueue/internal/logging"
	"lotoqueue/internal/lottery"
	"lotoqueue/internal/services"
	"lotoqueue/internal/textutil"
)

const (
	videoWidth  = 1080
	videoHeight = 1920
	videoFPS    = 24
	imageSize   = 1080

	// maxToolOutput caps the ffmpeg stderr tail carried in errors, in runes.
	maxToolOutput = 600

	// DefaultFontFile is used when render.font_file is empty.
	DefaultFontFile = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
)

// FFmpeg renders artifacts by invoking the ffmpeg binary.
type FFmpeg struct {
	binary       string
	outputDir    string
	fontFile     string
	videoSeconds int
	logos        bool
	palette      *lottery.Palette
	logger       *slog.Logger
}

// NewFFmpeg builds a renderer from the render configuration section.
func NewFFmpeg(cfg config.Render, palette *lottery.Palette, logger *slog.Logger) *FFmpeg {
	if palette == nil {
		palette = lottery.DefaultPalette()
	}
	font := strings.TrimSpace(cfg.FontFile)
	if font == "" {
		font = DefaultFontFile
	}
	seconds := cfg.VideoSeconds
	if seconds <= 0 {
		seconds = 8
	}
	return &FFmpeg{
		binary:       cfg.FFmpegBinary,
		outputDir:    cfg.OutputDir,
		fontFile:     font,
		videoSeconds: seconds,
		logos:        cfg.Logos,
		palette:      palette,
		logger:       logging.NewComponentLogger(logger, "render"),
	}
}

// RenderVideo writes a vertical short-form MP4 for draw and returns its path.
func (f *FFmpeg) RenderVideo(ctx context.Context, draw lottery.Draw) (string, error) {
	brand := f.palette.Lookup(draw.Lottery)
	out, err := f.outputPath(draw, "mp4")
	if err != nil {
		return "", err
	}

	lines := []textLine{
		{text: strings.ToUpper(draw.Name()), size: 84, color: "white", y: "300"},
		{text: "CONCURSO " + strings.TrimSpace(draw.Contest), size: 72, color: "white", y: "410"},
	}
	numberLines := NumberLines(lottery.ParseNumbers(draw.Numbers, brand.Numbers))
	top := 760 - (len(numberLines)-1)*75
	for i, group := range numberLines {
		lines = append(lines, textLine{
			text:  strings.Join(group, "  "),
			size:  110,
			color: "yellow",
			y:     strconv.Itoa(top + i*150),
		})
	}
	lines = append(lines,
		textLine{text: strings.TrimSpace(draw.Date), size: 60, color: "white", y: "1450"},
		textLine{text: strings.TrimSpace(draw.URL), size: 34, color: "white", y: "1700"},
	)

	seconds := strconv.Itoa(f.videoSeconds)
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=%s:r=%d", ffmpegColor(brand.Color), videoWidth, videoHeight, seconds, videoFPS),
		"-vf", drawTextChain(f.fontFile, lines),
		"-t", seconds,
		"-r", strconv.Itoa(videoFPS),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-an",
		out,
	}
	if err := f.run(ctx, "video", args); err != nil {
		return "", err
	}
	f.logger.Info("video rendered",
		logging.String("path", out),
		logging.String("lottery", brand.Key),
		logging.String(logging.FieldEventType, "video_rendered"),
	)
	return out, nil
}

// RenderImage writes a square JPEG card for draw and returns its path. When
// the lottery has a logo and the logo input fails, it retries without it.
func (f *FFmpeg) RenderImage(ctx context.Context, draw lottery.Draw) (string, error) {
	brand := f.palette.Lookup(draw.Lottery)
	out, err := f.outputPath(draw, "jpg")
	if err != nil {
		return "", err
	}

	withLogo := f.logos && brand.Logo != ""
	args := f.imageArgs(draw, brand, out, withLogo)
	err = f.run(ctx, "image", args)
	if err != nil && withLogo {
		logging.WarnWithContext(f.logger, "logo overlay failed; rendering without logo", "logo_unavailable",
			logging.String("logo", brand.Logo),
			logging.Error(err),
			logging.String(logging.FieldImpact, "image is published without the lottery logo"),
		)
		err = f.run(ctx, "image", f.imageArgs(draw, brand, out, false))
	}
	if err != nil {
		return "", err
	}
	f.logger.Info("image rendered",
		logging.String("path", out),
		logging.String("lottery", brand.Key),
		logging.String(logging.FieldEventType, "image_rendered"),
	)
	return out, nil
}

func (f *FFmpeg) imageArgs(draw lottery.Draw, brand lottery.Brand, out string, withLogo bool) []string {
	textTop := 150
	if withLogo {
		textTop = 330
	}
	lines := []textLine{
		{text: draw.Name(), size: 64, color: "black", y: strconv.Itoa(textTop)},
		{text: strings.TrimSpace("Concurso " + strings.TrimSpace(draw.Contest) + "  " + strings.TrimSpace(draw.Date)), size: 40, color: "0x333333", y: strconv.Itoa(textTop + 90)},
	}
	for i, group := range NumberLines(lottery.ParseNumbers(draw.Numbers, brand.Numbers)) {
		lines = append(lines, textLine{
			text:  strings.Join(group, "  "),
			size:  72,
			color: ffmpegColor(brand.Color),
			y:     strconv.Itoa(textTop + 220 + i*100),
		})
	}
	lines = append(lines, textLine{text: strings.TrimSpace(draw.URL), size: 28, color: "0x555555", y: "930"})

	card := fmt.Sprintf("drawbox=x=60:y=60:w=%d:h=%d:color=white:t=fill", imageSize-120, imageSize-120)
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d", ffmpegColor(brand.Color), imageSize, imageSize),
	}
	if withLogo {
		args = append(args, "-i", brand.Logo)
		graph := fmt.Sprintf("[0:v]%s,%s[bg];[1:v]scale=200:-1[logo];[bg][logo]overlay=(W-w)/2:100[out]",
			card, drawTextChain(f.fontFile, lines))
		args = append(args, "-filter_complex", graph, "-map", "[out]")
	} else {
		args = append(args, "-vf", card+","+drawTextChain(f.fontFile, lines))
	}
	return append(args, "-frames:v", "1", "-q:v", "2", out)
}

func (f *FFmpeg) outputPath(draw lottery.Draw, ext string) (string, error) {
	dir := f.outputDir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "render", "output_dir", dir, err)
	}
	return filepath.Join(dir, ArtifactName(draw, ext)), nil
}

func (f *FFmpeg) run(ctx context.Context, kind string, args []string) error {
	output, err := runCommand(ctx, deps.FFmpegCommand(f.binary), args...)
	if err != nil {
		detail := textutil.TruncateTail(strings.TrimSpace(string(output)), maxToolOutput)
		return services.Wrap(services.ErrExternalTool, "render", kind, detail, err)
	}
	return nil
}
