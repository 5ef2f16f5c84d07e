package render_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"lotoqueue/internal/config"
	"lotoqueue/internal/logging"
	"lotoqueue/internal/lottery"
	"lotoqueue/internal/render"
	"lotoqueue/internal/services"
)

type recordedCall struct {
	binary string
	args   []string
}

func stubRunner(t *testing.T, fail func(call int, args []string) bool) *[]recordedCall {
	t.Helper()
	calls := &[]recordedCall{}
	restore := render.SetCommandRunnerForTests(func(_ context.Context, binary string, args ...string) ([]byte, error) {
		*calls = append(*calls, recordedCall{binary: binary, args: append([]string(nil), args...)})
		if fail != nil && fail(len(*calls), args) {
			return []byte("Server returned 404 Not Found"), errors.New("exit status 1")
		}
		return nil, nil
	})
	t.Cleanup(restore)
	return calls
}

func newRenderer(t *testing.T) (*render.FFmpeg, string) {
	t.Helper()
	cfg := config.Default().Render
	cfg.OutputDir = filepath.Join(t.TempDir(), "output")
	cfg.FFmpegBinary = "/opt/ffmpeg"
	return render.NewFFmpeg(cfg, nil, logging.NewNop()), cfg.OutputDir
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		draw lottery.Draw
		ext  string
		want string
	}{
		{lottery.Draw{Lottery: "Mega Sena", Contest: "2700"}, "mp4", "mega-sena-2700.mp4"},
		{lottery.Draw{Lottery: "Dia de Sorte", Contest: " 1074 "}, "jpg", "dia-de-sorte-1074.jpg"},
		{lottery.Draw{Lottery: "", Contest: "", Row: 9}, "jpg", "loteria-linha-9.jpg"},
	}
	for _, tt := range tests {
		if got := render.ArtifactName(tt.draw, tt.ext); got != tt.want {
			t.Fatalf("ArtifactName(%+v) = %q, want %q", tt.draw, got, tt.want)
		}
	}
}

func TestNumberLines(t *testing.T) {
	six := []string{"1", "2", "3", "4", "5", "6"}
	if got := render.NumberLines(six); len(got) != 1 {
		t.Fatalf("expected one line, got %v", got)
	}
	fifteen := lottery.ParseNumbers("01 02 03 04 05 06 07 08 09 10 11 12 13 14 15", 15)
	got := render.NumberLines(fifteen)
	lengths := []int{}
	for _, line := range got {
		lengths = append(lengths, len(line))
	}
	if diff := cmp.Diff([]int{7, 7, 1}, lengths); diff != "" {
		t.Fatalf("line lengths mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderVideoBuildsFFmpegCommand(t *testing.T) {
	calls := stubRunner(t, nil)
	renderer, outDir := newRenderer(t)

	path, err := renderer.RenderVideo(context.Background(), lottery.Draw{
		Lottery: "Mega Sena", Contest: "2700", Date: "01/01/2025", Numbers: "01 02 03 04 05 06", URL: "https://x.test/r?a=1",
	})
	if err != nil {
		t.Fatalf("RenderVideo: %v", err)
	}
	if path != filepath.Join(outDir, "mega-sena-2700.mp4") {
		t.Fatalf("unexpected path %q", path)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one ffmpeg call, got %d", len(*calls))
	}
	call := (*calls)[0]
	if call.binary != "/opt/ffmpeg" {
		t.Fatalf("unexpected binary %q", call.binary)
	}
	if src := argValue(call.args, "-i"); !strings.HasPrefix(src, "color=c=0x206069:s=1080x1920:d=8:r=24") {
		t.Fatalf("unexpected source %q", src)
	}
	if argValue(call.args, "-c:v") != "libx264" || argValue(call.args, "-pix_fmt") != "yuv420p" {
		t.Fatalf("unexpected codec args %v", call.args)
	}
	vf := argValue(call.args, "-vf")
	for _, want := range []string{"text=MEGA SENA", "text=CONCURSO 2700", "text=01  02  03  04  05  06", `https\\:`} {
		if !strings.Contains(vf, want) {
			t.Fatalf("filter %q missing %q", vf, want)
		}
	}
	if call.args[len(call.args)-1] != path {
		t.Fatalf("output should be the last argument: %v", call.args)
	}
}

func TestRenderImageUsesLogoThenFallsBack(t *testing.T) {
	calls := stubRunner(t, func(call int, _ []string) bool { return call == 1 })
	renderer, outDir := newRenderer(t)

	path, err := renderer.RenderImage(context.Background(), lottery.Draw{Lottery: "Quina", Contest: "6500", Numbers: ""})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	if path != filepath.Join(outDir, "quina-6500.jpg") {
		t.Fatalf("unexpected path %q", path)
	}
	if len(*calls) != 2 {
		t.Fatalf("expected retry without logo, got %d calls", len(*calls))
	}
	first, second := (*calls)[0].args, (*calls)[1].args
	if !strings.Contains(strings.Join(first, " "), "quina.png") || argValue(first, "-filter_complex") == "" {
		t.Fatalf("first attempt should overlay the logo: %v", first)
	}
	if strings.Contains(strings.Join(second, " "), "quina.png") || argValue(second, "-vf") == "" {
		t.Fatalf("second attempt should skip the logo: %v", second)
	}
	if !strings.Contains(argValue(second, "-vf"), "text=?  ?  ?  ?  ?") {
		t.Fatalf("empty numbers should render five placeholders for quina: %q", argValue(second, "-vf"))
	}
}

func TestRenderImageUnknownLotteryHasNoLogo(t *testing.T) {
	calls := stubRunner(t, nil)
	renderer, _ := newRenderer(t)

	if _, err := renderer.RenderImage(context.Background(), lottery.Draw{Lottery: "Rifa", Contest: "1"}); err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	args := (*calls)[0].args
	if argValue(args, "-filter_complex") != "" {
		t.Fatalf("unknown lottery should not use a logo: %v", args)
	}
	if !strings.HasPrefix(argValue(args, "-i"), "color=c=0x4B0082") {
		t.Fatalf("unknown lottery should use the neutral color: %v", args)
	}
}

func TestRenderFailureIsExternalToolError(t *testing.T) {
	stubRunner(t, func(int, []string) bool { return true })
	renderer, _ := newRenderer(t)

	_, err := renderer.RenderVideo(context.Background(), lottery.Draw{Lottery: "Quina", Contest: "1"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "404 Not Found") {
		t.Fatalf("expected ffmpeg output in error, got %v", err)
	}
}

func TestRenderFailureKeepsToolOutputValidUTF8(t *testing.T) {
	stderr := strings.Repeat("ã", 700) + "x"
	restore := render.SetCommandRunnerForTests(func(context.Context, string, ...string) ([]byte, error) {
		return []byte(stderr), errors.New("exit status 1")
	})
	t.Cleanup(restore)
	renderer, _ := newRenderer(t)

	_, err := renderer.RenderVideo(context.Background(), lottery.Draw{Lottery: "Quina", Contest: "1"})
	if err == nil {
		t.Fatal("expected render error")
	}
	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Fatalf("error text is not valid UTF-8: %q", msg)
	}
	if !strings.Contains(msg, strings.Repeat("ã", 599)+"x") || strings.Contains(msg, strings.Repeat("ã", 601)) {
		t.Fatalf("expected the last 600 characters of tool output, got %d runes", len([]rune(msg)))
	}
}

func TestDryRunRenderer(t *testing.T) {
	calls := stubRunner(t, nil)
	dry := render.DryRun{OutputDir: "out"}
	path, err := dry.RenderVideo(context.Background(), lottery.Draw{Lottery: "Quina", Contest: "7"})
	if err != nil || path != filepath.Join("out", "DRYRUN_quina-7.mp4") {
		t.Fatalf("unexpected dry run result %q %v", path, err)
	}
	if len(*calls) != 0 {
		t.Fatal("dry run must not invoke ffmpeg")
	}
}
