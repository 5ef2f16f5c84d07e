package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"lotoqueue/internal/lottery"
	"lotoqueue/internal/render"
	"lotoqueue/internal/youtube"
)

// FakeRenderer counts renders and returns predictable paths.
type FakeRenderer struct {
	mu     sync.Mutex
	Dir    string
	Err    error
	Videos []lottery.Draw
	Images []lottery.Draw
}

func (f *FakeRenderer) RenderVideo(_ context.Context, draw lottery.Draw) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Videos = append(f.Videos, draw)
	if f.Err != nil {
		return "", f.Err
	}
	return filepath.Join(f.Dir, render.ArtifactName(draw, "mp4")), nil
}

func (f *FakeRenderer) RenderImage(_ context.Context, draw lottery.Draw) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Images = append(f.Images, draw)
	if f.Err != nil {
		return "", f.Err
	}
	return filepath.Join(f.Dir, render.ArtifactName(draw, "jpg")), nil
}

// VideoCount returns the number of RenderVideo calls.
func (f *FakeRenderer) VideoCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Videos)
}

// UploadCall records one Upload invocation.
type UploadCall struct {
	RefreshToken string
	Path         string
	Meta         youtube.Metadata
}

// FakeUploader maps refresh tokens to access tokens and records uploads.
// TokenErrs and UploadErrs are keyed by refresh token.
type FakeUploader struct {
	mu         sync.Mutex
	TokenErrs  map[string]error
	UploadErrs map[string]error
	// UploadErr fails every upload when set.
	UploadErr error
	// OnUpload runs before each upload returns; a non-nil error fails it.
	OnUpload func(ctx context.Context, refreshToken string) error
	Tokens   []string
	Uploads  []UploadCall
}

func (f *FakeUploader) AccessToken(_ context.Context, clientID, clientSecret, refreshToken string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tokens = append(f.Tokens, refreshToken)
	if err := f.TokenErrs[refreshToken]; err != nil {
		return "", err
	}
	return "access:" + refreshToken, nil
}

func (f *FakeUploader) Upload(ctx context.Context, accessToken, path string, meta youtube.Metadata) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refresh := strings.TrimPrefix(accessToken, "access:")
	f.Uploads = append(f.Uploads, UploadCall{RefreshToken: refresh, Path: path, Meta: meta})
	if f.OnUpload != nil {
		if err := f.OnUpload(ctx, refresh); err != nil {
			return "", err
		}
	}
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	if err := f.UploadErrs[refresh]; err != nil {
		return "", err
	}
	return fmt.Sprintf("vid-%d", len(f.Uploads)), nil
}

// UploadCount returns the number of Upload calls.
func (f *FakeUploader) UploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Uploads)
}
