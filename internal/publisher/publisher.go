package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lotoqueue/internal/logging"
	"lotoqueue/internal/lottery"
	"lotoqueue/internal/services"
	"lotoqueue/internal/stamp"
	"lotoqueue/internal/textutil"
	"lotoqueue/internal/youtube"
)

// Network is the vault network the publisher fans out to.
const Network = "YOUTUBE"

// Vault keys read per account.
const (
	KeyClientID      = "CLIENT_ID"
	KeyClientSecret  = "CLIENT_SECRET"
	KeyRefreshToken  = "REFRESH_TOKEN"
	KeyPrivacyStatus = "PRIVACY_STATUS"
	KeyCategoryID    = "CATEGORY_ID"
	KeyTags          = "TAGS"
)

// Credentials is the read side of the vault.
type Credentials interface {
	Get(network, key, account, def string) string
	Accounts(network string) []string
}

// Uploader exchanges refresh tokens and uploads one file to one channel.
type Uploader interface {
	AccessToken(ctx context.Context, clientID, clientSecret, refreshToken string) (string, error)
	Upload(ctx context.Context, accessToken, path string, meta youtube.Metadata) (string, error)
}

// VideoRenderer produces the artifact shared by every account.
type VideoRenderer interface {
	RenderVideo(ctx context.Context, draw lottery.Draw) (string, error)
}

// SleepFunc pauses between accounts. It returns early with ctx's error.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Publisher.
type Options struct {
	Credentials Credentials
	Uploader    Uploader
	Renderer    VideoRenderer
	Clock       *stamp.Clock
	ChannelGap  time.Duration
	DryRun      bool
	Sleep       SleepFunc
	Logger      *slog.Logger
}

// Publisher renders a draw once and uploads it to every YouTube account in
// the vault, in account order.
type Publisher struct {
	creds    Credentials
	uploader Uploader
	renderer VideoRenderer
	clock    *stamp.Clock
	gap      time.Duration
	dryRun   bool
	sleep    SleepFunc
	logger   *slog.Logger
}

// New builds a Publisher. A nil Sleep uses a context-aware timer.
func New(opts Options) *Publisher {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	clock := opts.Clock
	if clock == nil {
		clock = stamp.InLocation(time.Local)
	}
	return &Publisher{
		creds:    opts.Credentials,
		uploader: opts.Uploader,
		renderer: opts.Renderer,
		clock:    clock,
		gap:      opts.ChannelGap,
		dryRun:   opts.DryRun,
		sleep:    sleep,
		logger:   logging.NewComponentLogger(opts.Logger, "publisher"),
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Publish fans draw out to every account. Channel failures are recorded in
// the result; an error is returned only when the row as a whole could not be
// attempted (the render failed or ctx was cancelled).
func (p *Publisher) Publish(ctx context.Context, draw lottery.Draw) (Result, error) {
	ctx = services.WithNetwork(ctx, Network)
	logger := logging.WithContext(ctx, p.logger)

	accounts := p.creds.Accounts(Network)
	if len(accounts) == 0 {
		logging.WarnWithContext(logger, "no accounts with refresh token; skipping row", "no_accounts",
			logging.String(logging.FieldErrorHint, "add REFRESH_TOKEN rows for YOUTUBE to the vault tab"),
			logging.String(logging.FieldImpact, "row is marked as processed without uploads"),
		)
		return Result{}, nil
	}

	videoPath, err := p.renderer.RenderVideo(ctx, draw)
	if err != nil {
		return Result{}, fmt.Errorf("render video: %w", err)
	}

	meta := p.metadata(draw)
	result := Result{VideoPath: videoPath, Channels: make([]ChannelResult, 0, len(accounts))}
	attempted := 0
	for _, account := range accounts {
		acctCtx := services.WithAccount(ctx, account)
		acctLogger := logging.WithContext(acctCtx, p.logger)

		clientID := p.creds.Get(Network, KeyClientID, account, "")
		clientSecret := p.creds.Get(Network, KeyClientSecret, account, "")
		refreshToken := p.creds.Get(Network, KeyRefreshToken, account, "")
		if clientID == "" || clientSecret == "" || refreshToken == "" {
			logging.WarnWithContext(acctLogger, "account skipped: incomplete credentials", "credentials_incomplete",
				logging.String(logging.FieldErrorHint, "set CLIENT_ID, CLIENT_SECRET and REFRESH_TOKEN for the account"),
				logging.String(logging.FieldImpact, "video not uploaded to this channel"),
			)
			result.Channels = append(result.Channels, ChannelResult{Account: account, Outcome: OutcomeSkipped, Detail: StatusIncomplete})
			continue
		}

		if attempted > 0 {
			if err := p.sleep(ctx, p.gap); err != nil {
				return result, err
			}
		}
		attempted++

		accountMeta := meta
		accountMeta.PrivacyStatus = p.creds.Get(Network, KeyPrivacyStatus, account, youtube.DefaultPrivacy)
		accountMeta.CategoryID = p.creds.Get(Network, KeyCategoryID, account, youtube.DefaultCategoryID)
		accountMeta.Tags = youtube.ParseTags(p.creds.Get(Network, KeyTags, account, ""))

		channel := p.publishOne(acctCtx, account, videoPath, accountMeta, clientID, clientSecret, refreshToken)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if channel.Outcome == OutcomeOK {
			result.OkAny = true
			acctLogger.Info("video published",
				logging.String("url", channel.URL),
				logging.String(logging.FieldEventType, "channel_published"),
			)
		} else {
			logging.WarnWithContext(acctLogger, "upload failed", "channel_failed",
				logging.String("detail", channel.Detail),
				logging.String(logging.FieldErrorHint, "check the account's OAuth client and quota"),
				logging.String(logging.FieldImpact, "video not uploaded to this channel"),
			)
		}
		result.Channels = append(result.Channels, channel)
	}

	result.MarkValue = markValue(Network, p.clock.Stamp(), result.Channels)
	return result, nil
}

func (p *Publisher) publishOne(ctx context.Context, account, videoPath string, meta youtube.Metadata, clientID, clientSecret, refreshToken string) ChannelResult {
	if p.dryRun {
		id := "DRYRUN_" + strings.ReplaceAll(account, " ", "_")
		return ChannelResult{Account: account, Outcome: OutcomeOK, VideoID: id, URL: youtube.WatchURL(id)}
	}
	token, err := p.uploader.AccessToken(ctx, clientID, clientSecret, refreshToken)
	if err != nil {
		return ChannelResult{Account: account, Outcome: OutcomeFailed, Detail: err.Error()}
	}
	id, err := p.uploader.Upload(ctx, token, videoPath, meta)
	if err != nil {
		return ChannelResult{Account: account, Outcome: OutcomeFailed, Detail: err.Error()}
	}
	return ChannelResult{Account: account, Outcome: OutcomeOK, VideoID: id, URL: youtube.WatchURL(id)}
}

func (p *Publisher) metadata(draw lottery.Draw) youtube.Metadata {
	title := strings.TrimSpace(draw.Title)
	if title == "" {
		title = strings.TrimSpace(draw.Name() + " — Concurso " + strings.TrimSpace(draw.Contest))
	}
	description := draw.Description
	if strings.TrimSpace(description) == "" {
		description = "Resultado completo: " + strings.TrimSpace(draw.URL) +
			"\n\nPortal SimonSports\nGerado em " + p.clock.Stamp()
	}
	return youtube.Metadata{
		Title:       textutil.Truncate(title, youtube.MaxTitleRunes),
		Description: textutil.Truncate(description, youtube.MaxDescriptionRunes),
	}
}
