package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"lotoqueue/internal/config"
	"lotoqueue/internal/services"
	"lotoqueue/internal/textutil"
)

const maxErrorDetail = 1200

// WatchURL returns the public watch page for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// Client exchanges refresh tokens and uploads videos for one run.
type Client struct {
	tokenURL      string
	endpoint      string
	tokenTimeout  time.Duration
	uploadTimeout time.Duration
	httpClient    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for the token exchange and the
// upload.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a Client from the youtube configuration section.
func NewClient(cfg config.YouTube, opts ...Option) *Client {
	c := &Client{
		tokenURL:      cfg.TokenURL,
		endpoint:      cfg.APIEndpoint,
		tokenTimeout:  time.Duration(cfg.TokenTimeoutSeconds) * time.Second,
		uploadTimeout: time.Duration(cfg.UploadTimeoutSeconds) * time.Second,
		httpClient:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessToken trades a refresh token for a short-lived access token.
func (c *Client) AccessToken(ctx context.Context, clientID, clientSecret, refreshToken string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx, cancel := context.WithTimeout(ctx, c.tokenTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, "youtube", "token", "", err)
		}
		return "", services.Wrap(services.ErrTransport, "youtube", "token", "", err)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return "", services.Wrap(services.ErrTransport, "youtube", "token", "response without access_token", nil)
	}
	return token.AccessToken, nil
}

// Upload sends the video at path with meta and returns the new video id.
func (c *Client) Upload(ctx context.Context, accessToken, path string, meta Metadata) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "youtube", "upload", "open video", err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()
	svc, err := ytapi.NewService(ctx, option.WithHTTPClient(c.httpClient), option.WithEndpoint(c.endpoint))
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "youtube", "upload", "api client", err)
	}

	// ChunkSize(0) keeps the upload to a single multipart request.
	call := svc.Videos.Insert([]string{"snippet", "status"}, meta.video()).
		Media(file, googleapi.ContentType("video/mp4"), googleapi.ChunkSize(0)).
		Context(ctx)
	call.Header().Set("Authorization", "Bearer "+accessToken)

	video, err := call.Do()
	if err != nil {
		var apiErr *googleapi.Error
		switch {
		case errors.As(err, &apiErr):
			return "", services.Wrap(services.ErrTransport, "youtube", "upload", describeFailure(apiErr.Code, []byte(apiErr.Body)), nil)
		case errors.Is(err, context.DeadlineExceeded):
			return "", services.Wrap(services.ErrTimeout, "youtube", "upload", "", err)
		default:
			return "", services.Wrap(services.ErrTransport, "youtube", "upload", "", err)
		}
	}
	if id := strings.TrimSpace(video.Id); id != "" {
		return id, nil
	}
	return "", services.Wrap(services.ErrTransport, "youtube", "upload",
		fmt.Sprintf("response without video id (kind %q, http %d)", video.Kind, video.HTTPStatusCode), nil)
}

func describeFailure(status int, raw []byte) string {
	var envelope map[string]json.RawMessage
	if json.Unmarshal(raw, &envelope) == nil {
		if _, ok := envelope["error"]; ok {
			var compact bytes.Buffer
			if json.Compact(&compact, raw) == nil {
				return "youtube api error: " + textutil.Truncate(compact.String(), maxErrorDetail)
			}
		}
	}
	return fmt.Sprintf("youtube http %d: %s", status, textutil.Truncate(string(raw), maxErrorDetail))
}
