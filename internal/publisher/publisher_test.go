package publisher_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lotoqueue/internal/lottery"
	"lotoqueue/internal/publisher"
	"lotoqueue/internal/stamp"
	"lotoqueue/internal/testsupport"
	"lotoqueue/internal/vault"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func twoAccountVault(t *testing.T, extra ...[]string) *vault.Vault {
	t.Helper()
	rows := [][]string{
		{"Rede", "Conta", "Chave", "Valor"},
		{"YOUTUBE", "", "CLIENT_ID", "shared-id"},
		{"YOUTUBE", "", "CLIENT_SECRET", "shared-secret"},
		{"YOUTUBE", "alpha", "REFRESH_TOKEN", "rt-alpha"},
		{"YOUTUBE", "beta", "REFRESH_TOKEN", "rt-beta"},
		{"YOUTUBE", "beta", "PRIVACY_STATUS", "Public"},
		{"YOUTUBE", "beta", "TAGS", "loterias; mega-sena"},
	}
	v, err := vault.Parse(append(rows, extra...))
	if err != nil {
		t.Fatalf("vault.Parse: %v", err)
	}
	return v
}

type harness struct {
	renderer *testsupport.FakeRenderer
	uploader *testsupport.FakeUploader
	sleeps   []time.Duration
}

func newPublisher(t *testing.T, creds publisher.Credentials, dryRun bool) (*publisher.Publisher, *harness) {
	t.Helper()
	h := &harness{
		renderer: &testsupport.FakeRenderer{Dir: t.TempDir()},
		uploader: &testsupport.FakeUploader{},
	}
	p := publisher.New(publisher.Options{
		Credentials: creds,
		Uploader:    h.uploader,
		Renderer:    h.renderer,
		Clock:       stamp.Fixed(fixedNow),
		ChannelGap:  time.Second,
		DryRun:      dryRun,
		Sleep: func(_ context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			return nil
		},
	})
	return p, h
}

var megaSena = lottery.Draw{Row: 2, Lottery: "mega sena", Contest: "2700", Date: "01/01/2025", Numbers: "01 02 03 04 05 06", URL: "https://example.com/mega-2700"}

func TestPublishAllAccountsSucceed(t *testing.T) {
	p, h := newPublisher(t, twoAccountVault(t), false)

	res, err := p.Publish(context.Background(), megaSena)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if h.renderer.VideoCount() != 1 {
		t.Fatalf("expected one render, got %d", h.renderer.VideoCount())
	}
	if diff := cmp.Diff([]string{"rt-alpha", "rt-beta"}, h.uploader.Tokens); diff != "" {
		t.Fatalf("token order mismatch (-want +got):\n%s", diff)
	}
	if h.uploader.Uploads[0].Path != h.uploader.Uploads[1].Path || h.uploader.Uploads[0].Path != res.VideoPath {
		t.Fatal("every account must upload the same artifact")
	}
	if !res.OkAny {
		t.Fatal("expected ok_any")
	}
	want := "Publicado YOUTUBE em 01/01/2025 12:00 | alpha: https://www.youtube.com/watch?v=vid-1 | beta: https://www.youtube.com/watch?v=vid-2"
	if res.MarkValue != want {
		t.Fatalf("unexpected mark value:\n got %q\nwant %q", res.MarkValue, want)
	}
	if diff := cmp.Diff([]time.Duration{time.Second}, h.sleeps); diff != "" {
		t.Fatalf("expected a single gap between two accounts (-want +got):\n%s", diff)
	}

	meta := h.uploader.Uploads[0].Meta
	if meta.Title != "mega sena — Concurso 2700" {
		t.Fatalf("unexpected title %q", meta.Title)
	}
	if meta.Description != "Resultado completo: https://example.com/mega-2700\n\nPortal SimonSports\nGerado em 01/01/2025 12:00" {
		t.Fatalf("unexpected description %q", meta.Description)
	}
	if meta.PrivacyStatus != "unlisted" || meta.CategoryID != "17" || len(meta.Tags) != 0 {
		t.Fatalf("unexpected alpha defaults %+v", meta)
	}
	beta := h.uploader.Uploads[1].Meta
	if beta.PrivacyStatus != "Public" {
		t.Fatalf("privacy should pass through for the uploader to coerce, got %q", beta.PrivacyStatus)
	}
	if diff := cmp.Diff([]string{"loterias", "mega-sena"}, beta.Tags); diff != "" {
		t.Fatalf("beta tags mismatch (-want +got):\n%s", diff)
	}
	for _, ch := range res.Channels {
		if ch.Status() != publisher.StatusOK {
			t.Fatalf("unexpected status %q for %s", ch.Status(), ch.Account)
		}
	}
}

func TestPublishSkipsIncompleteAccount(t *testing.T) {
	v, err := vault.Parse([][]string{
		{"Rede", "Conta", "Chave", "Valor"},
		{"YOUTUBE", "alpha", "CLIENT_ID", "id"},
		{"YOUTUBE", "alpha", "CLIENT_SECRET", "secret"},
		{"YOUTUBE", "alpha", "REFRESH_TOKEN", "rt-alpha"},
		{"YOUTUBE", "beta", "REFRESH_TOKEN", "rt-beta"},
	})
	if err != nil {
		t.Fatalf("vault.Parse: %v", err)
	}
	p, h := newPublisher(t, v, false)

	res, err := p.Publish(context.Background(), megaSena)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !res.OkAny {
		t.Fatal("alpha should succeed")
	}
	if len(res.Channels) != 2 || res.Channels[1].Account != "beta" || res.Channels[1].Status() != "credenciais incompletas" {
		t.Fatalf("unexpected channels %+v", res.Channels)
	}
	if h.uploader.UploadCount() != 1 {
		t.Fatalf("expected one upload, got %d", h.uploader.UploadCount())
	}
	if len(h.sleeps) != 0 {
		t.Fatalf("skipped accounts should not add a gap, got %v", h.sleeps)
	}
}

func TestPublishAllUploadsFail(t *testing.T) {
	p, h := newPublisher(t, twoAccountVault(t), false)
	h.uploader.UploadErr = errors.New("youtube http 500: backend error")

	res, err := p.Publish(context.Background(), megaSena)
	if err != nil {
		t.Fatalf("per-channel failures must not surface as errors: %v", err)
	}
	if res.OkAny {
		t.Fatal("expected no successful channel")
	}
	for _, ch := range res.Channels {
		if ch.Status() != "ERRO: youtube http 500: backend error" {
			t.Fatalf("unexpected status %q", ch.Status())
		}
	}
	want := "Falha YOUTUBE em 01/01/2025 12:00 | alpha: youtube http 500: backend error | beta: youtube http 500: backend error"
	if res.MarkValue != want {
		t.Fatalf("unexpected mark value %q", res.MarkValue)
	}
}

func TestPublishTokenFailureIsolated(t *testing.T) {
	p, h := newPublisher(t, twoAccountVault(t), false)
	h.uploader.TokenErrs = map[string]error{"rt-alpha": errors.New("invalid_grant")}

	res, err := p.Publish(context.Background(), megaSena)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !res.OkAny || res.Channels[0].Outcome != publisher.OutcomeFailed || res.Channels[1].Outcome != publisher.OutcomeOK {
		t.Fatalf("unexpected channels %+v", res.Channels)
	}
	if !strings.HasPrefix(res.MarkValue, "Publicado YOUTUBE em") || strings.Contains(res.MarkValue, "alpha") {
		t.Fatalf("mark should list only successful links, got %q", res.MarkValue)
	}
}

func TestPublishWithoutAccountsSkipsRender(t *testing.T) {
	v, err := vault.Parse([][]string{{"Rede", "Conta", "Chave", "Valor"}, {"YOUTUBE", "", "CLIENT_ID", "x"}})
	if err != nil {
		t.Fatalf("vault.Parse: %v", err)
	}
	p, h := newPublisher(t, v, false)

	res, err := p.Publish(context.Background(), megaSena)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.OkAny || res.MarkValue != "" {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if h.renderer.VideoCount() != 0 {
		t.Fatal("renderer must not run without accounts")
	}
}

func TestPublishRenderFailureIsReturned(t *testing.T) {
	p, h := newPublisher(t, twoAccountVault(t), false)
	h.renderer.Err = errors.New("ffmpeg missing")

	if _, err := p.Publish(context.Background(), megaSena); err == nil || !strings.Contains(err.Error(), "ffmpeg missing") {
		t.Fatalf("expected render error, got %v", err)
	}
	if h.uploader.UploadCount() != 0 {
		t.Fatal("no uploads after a failed render")
	}
}

func TestPublishCancelledDuringLastUpload(t *testing.T) {
	p, h := newPublisher(t, twoAccountVault(t), false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.uploader.OnUpload = func(ctx context.Context, refresh string) error {
		if refresh != "rt-beta" {
			return nil
		}
		cancel()
		return ctx.Err()
	}

	_, err := p.Publish(ctx, megaSena)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h.uploader.UploadCount() != 2 {
		t.Fatalf("expected both uploads attempted, got %d", h.uploader.UploadCount())
	}
}

func TestPublishDryRunFakesUploads(t *testing.T) {
	v := twoAccountVault(t, []string{"YOUTUBE", "conta três", "REFRESH_TOKEN", "rt-3"})
	p, h := newPublisher(t, v, true)

	res, err := p.Publish(context.Background(), megaSena)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(h.uploader.Tokens) != 0 || h.uploader.UploadCount() != 0 {
		t.Fatal("dry run must not call the uploader")
	}
	if !res.OkAny || len(res.Channels) != 3 {
		t.Fatalf("unexpected dry run result %+v", res)
	}
	if got := res.Channels[2].VideoID; got != "DRYRUN_conta_três" {
		t.Fatalf("unexpected dry run id %q", got)
	}
	if strings.Count(res.MarkValue, "watch?v=DRYRUN_") != 3 {
		t.Fatalf("mark should carry three links, got %q", res.MarkValue)
	}
}

func TestPublishHonorsOverridesAndTruncates(t *testing.T) {
	p, h := newPublisher(t, twoAccountVault(t), false)
	draw := megaSena
	draw.Title = strings.Repeat("Título ", 30)
	draw.Description = "Descrição própria"

	if _, err := p.Publish(context.Background(), draw); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	meta := h.uploader.Uploads[0].Meta
	if len([]rune(meta.Title)) != 95 || !strings.HasPrefix(meta.Title, "Título Título") {
		t.Fatalf("unexpected title %q", meta.Title)
	}
	if meta.Description != "Descrição própria" {
		t.Fatalf("unexpected description %q", meta.Description)
	}
}

func TestPublishDefaultLotteryName(t *testing.T) {
	p, h := newPublisher(t, twoAccountVault(t), false)
	if _, err := p.Publish(context.Background(), lottery.Draw{Contest: "10"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := h.uploader.Uploads[0].Meta.Title; got != "Loteria — Concurso 10" {
		t.Fatalf("unexpected title %q", got)
	}
}
