package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lotoqueue/internal/config"
	"lotoqueue/internal/ledger"
	"lotoqueue/internal/publisher"
	"lotoqueue/internal/render"
	"lotoqueue/internal/services"
	"lotoqueue/internal/sheets"
	"lotoqueue/internal/testsupport"
)

var configEnv = []string{
	"GOOGLE_SERVICE_JSON", "GOOGLE_SHEET_ID", "SHEET_TAB", "COFRE_SHEET_ID", "COFRE_ABA_CRED",
	"ENFILEIRADO_VIDEOS_COL", "PUBLICADO_YT_COL", "IMAGES_OUT_DIR", "NTFY_TOPIC",
	"MAX_VIDEOS_RODADA", "PAUSA_ENTRE_VIDEOS", "DRY_RUN_VIDEOS",
}

type cliEnv struct {
	baseDir    string
	configPath string
	tabs       map[string]*testsupport.MemoryTab
	uploader   *testsupport.FakeUploader
	renderer   *testsupport.FakeRenderer
}

func setupCLI(t *testing.T, withStores bool) *cliEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	for _, key := range configEnv {
		t.Setenv(key, "")
	}

	var b strings.Builder
	if withStores {
		b.WriteString("[sheet]\nsheet_id = \"queue-sheet\"\ntab = \"Fila\"\n")
		b.WriteString("queued_column = \"Enfileirado_Videos\"\npublished_column = \"Publicado_Youtube\"\n")
		b.WriteString("[vault]\nsheet_id = \"vault-sheet\"\ntab = \"Credenciais_Rede\"\n")
		b.WriteString("[google]\nservice_json = '{\"type\":\"service_account\"}'\n")
	}
	b.WriteString("[queue]\nitem_pause_seconds = 0\nchannel_gap_seconds = 0\n")
	fmt.Fprintf(&b, "[render]\noutput_dir = %q\n", filepath.Join(base, "output"))
	fmt.Fprintf(&b, "[paths]\nstate_dir = %q\nlog_dir = %q\n", filepath.Join(base, "state"), filepath.Join(base, "logs"))

	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	env := &cliEnv{
		baseDir:    base,
		configPath: configPath,
		uploader:   &testsupport.FakeUploader{},
		renderer:   &testsupport.FakeRenderer{Dir: filepath.Join(base, "output")},
		tabs: map[string]*testsupport.MemoryTab{
			"queue-sheet/Fila": testsupport.NewMemoryTab("Fila",
				[]string{"Loteria", "Concurso", "Data", "Números", "URL", "Enfileirado_Videos", "Publicado_Youtube"},
				[]string{"Quina", "6500", "01/01/2025", "1 2 3 4 5", "https://example.com/quina", "1", ""},
				[]string{"Mega-Sena", "2800", "01/01/2025", "", "", "", ""},
			),
			"vault-sheet/Credenciais_Rede": testsupport.NewMemoryTab("Credenciais_Rede",
				[]string{"Rede", "Conta", "Chave", "Valor"},
				[]string{"YOUTUBE", "", "CLIENT_ID", "cid"},
				[]string{"YOUTUBE", "", "CLIENT_SECRET", "csecret"},
				[]string{"YOUTUBE", "canal", "REFRESH_TOKEN", "rt-canal"},
			),
		},
	}
	return env
}

func (e *cliEnv) deps() *dependencies {
	return &dependencies{
		openTab: func(_ context.Context, _ *config.Config, sheetID, title string) (sheets.Tab, error) {
			tab, ok := e.tabs[sheetID+"/"+title]
			if !ok {
				return nil, services.Wrap(services.ErrNotFound, "sheets", "open", title, nil)
			}
			return tab, nil
		},
		uploader: func(*config.Config) publisher.Uploader { return e.uploader },
		renderer: func(cfg *config.Config, _ *slog.Logger) render.Renderer {
			if cfg.Queue.DryRun {
				return render.DryRun{OutputDir: cfg.Render.OutputDir}
			}
			return e.renderer
		},
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommandWith(e.deps())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunPublishesAndRecordsHistory(t *testing.T) {
	env := setupCLI(t, true)

	out, err := env.run(t, "run")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Processed: 1  OK: 1") {
		t.Fatalf("unexpected run output:\n%s", out)
	}
	queue := env.tabs["queue-sheet/Fila"]
	if got := queue.Cell("F2"); !strings.HasPrefix(got, "OK ") {
		t.Fatalf("queued cell = %q", got)
	}
	if got := queue.Cell("G2"); !strings.Contains(got, "canal: https://www.youtube.com/watch?v=vid-1") {
		t.Fatalf("published cell = %q", got)
	}
	if got := queue.Cell("F3"); got != "" {
		t.Fatalf("idle row touched: %q", got)
	}
	if env.renderer.VideoCount() != 1 || env.uploader.UploadCount() != 1 {
		t.Fatalf("expected one render and one upload, got %d/%d", env.renderer.VideoCount(), env.uploader.UploadCount())
	}

	history, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(history, "canal") || !strings.Contains(history, "ok") {
		t.Fatalf("history missing attempt:\n%s", history)
	}

	logs, _ := filepath.Glob(filepath.Join(env.baseDir, "logs", "lotoqueue-*.log"))
	if len(logs) != 1 {
		t.Fatalf("expected one run log, got %v", logs)
	}
}

func TestRunDryRunLeavesSheetAlone(t *testing.T) {
	env := setupCLI(t, true)

	out, err := env.run(t, "run", "--dry-run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "(dry run)") {
		t.Fatalf("expected dry run marker:\n%s", out)
	}
	queue := env.tabs["queue-sheet/Fila"]
	if queue.BatchCalls != 0 || queue.Cell("F2") != "1" {
		t.Fatalf("dry run wrote to the sheet")
	}
	if env.uploader.UploadCount() != 0 || len(env.uploader.Tokens) != 0 {
		t.Fatalf("dry run reached the uploader")
	}
}

func TestRunWithoutStoresIsStartupError(t *testing.T) {
	env := setupCLI(t, false)
	_, err := env.run(t, "run")
	if err == nil || !services.IsStartupError(err) {
		t.Fatalf("expected startup error, got %v", err)
	}
	if code := exitCode(err); code != exitStartup {
		t.Fatalf("exit code = %d, want %d", code, exitStartup)
	}
}

func TestRunMissingTabIsStartupError(t *testing.T) {
	env := setupCLI(t, true)
	delete(env.tabs, "vault-sheet/Credenciais_Rede")
	_, err := env.run(t, "run")
	if err == nil || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if code := exitCode(err); code != exitStartup {
		t.Fatalf("exit code = %d, want %d", code, exitStartup)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"interrupted", fmt.Errorf("run: %w", context.Canceled), exitInterrupted},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "bad", nil), exitStartup},
		{"missing tab", services.Wrap(services.ErrNotFound, "sheets", "open", "tab", nil), exitStartup},
		{"lock held", errRunLocked, exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Fatalf("%s: exitCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPendingAllShowsRowStates(t *testing.T) {
	env := setupCLI(t, true)
	if _, err := env.run(t, "run"); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, err := env.run(t, "pending", "--all")
	if err != nil {
		t.Fatalf("pending --all: %v", err)
	}
	if !strings.Contains(out, "2\tQuina\t6500\tsettled_ok\tOK ") {
		t.Fatalf("unexpected state output:\n%s", out)
	}
	if strings.Contains(out, "Mega-Sena") {
		t.Fatalf("idle rows should not be listed:\n%s", out)
	}
	if !strings.Contains(out, "1 queued or settled; 0 pending") {
		t.Fatalf("missing state footer:\n%s", out)
	}
}

func TestPendingListsRowsWithoutWriting(t *testing.T) {
	env := setupCLI(t, true)
	out, err := env.run(t, "pending")
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if !strings.Contains(out, "2\tQuina\t6500\t01/01/2025\t1") {
		t.Fatalf("unexpected pending output:\n%s", out)
	}
	if !strings.Contains(out, "1 pending; next run processes 1") {
		t.Fatalf("missing pending footer:\n%s", out)
	}
	if len(env.tabs["queue-sheet/Fila"].RangeWrites) != 0 {
		t.Fatal("pending wrote to the sheet")
	}
}

func TestVaultAccountsHidesValues(t *testing.T) {
	env := setupCLI(t, true)
	out, err := env.run(t, "vault", "accounts")
	if err != nil {
		t.Fatalf("vault accounts: %v", err)
	}
	if !strings.Contains(out, "YOUTUBE\tcanal\tyes") {
		t.Fatalf("unexpected accounts output:\n%s", out)
	}
	if strings.Contains(out, "rt-canal") || strings.Contains(out, "csecret") {
		t.Fatalf("secret leaked:\n%s", out)
	}
}

func TestRenderDryRunUsesPlaceholders(t *testing.T) {
	env := setupCLI(t, false)
	t.Setenv("DRY_RUN_VIDEOS", "sim")
	out, err := env.run(t, "render", "--lottery", "Mega-Sena", "--contest", "2800")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "DRYRUN_mega-sena-2800.jpg") || !strings.Contains(out, "DRYRUN_mega-sena-2800.mp4") {
		t.Fatalf("unexpected render output:\n%s", out)
	}
	if _, err := env.run(t, "render"); err == nil {
		t.Fatal("expected error without --lottery")
	}
}

func TestCleanupReconcilesOutputDir(t *testing.T) {
	env := setupCLI(t, false)
	outDir := filepath.Join(env.baseDir, "output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"quina-6500-1.jpg", "quina-6500-2.jpg"} {
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	out, err := env.run(t, "cleanup", "--dry-run")
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if !strings.Contains(out, "rename quina-6500-1.jpg -> quina-6500.jpg") || !strings.Contains(out, "Dry run") {
		t.Fatalf("unexpected dry-run output:\n%s", out)
	}

	if _, err := env.run(t, "cleanup"); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 1 || entries[0].Name() != "quina-6500.jpg" {
		t.Fatalf("unexpected output dir contents: %v", entries)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLI(t, true)
	target := filepath.Join(env.baseDir, "new", "config.toml")

	if _, err := env.run(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	if _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}

	out, err := env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "service_account") {
		t.Fatalf("service account leaked:\n%s", out)
	}
	if !strings.Contains(out, "<set, 26 chars>") || !strings.Contains(out, "queue-sheet") {
		t.Fatalf("unexpected config output:\n%s", out)
	}
}

func TestHistoryEmptyLedger(t *testing.T) {
	env := setupCLI(t, false)
	out, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No attempts recorded") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	store, err := ledger.OpenPath(filepath.Join(env.baseDir, "state", "ledger.db"))
	if err != nil {
		t.Fatalf("ledger should exist after history: %v", err)
	}
	_ = store.Close()
}

func TestDoctorDryRunPassesWithStores(t *testing.T) {
	env := setupCLI(t, true)
	t.Setenv("DRY_RUN_VIDEOS", "1")
	out, err := env.run(t, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Spreadsheets\tok") || !strings.Contains(out, "All required checks passed") {
		t.Fatalf("unexpected doctor output:\n%s", out)
	}
}
