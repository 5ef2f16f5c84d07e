package youtube

import (
	"strings"

	ytapi "google.golang.org/api/youtube/v3"

	"lotoqueue/internal/textutil"
)

const (
	MaxTitleRunes       = 95
	MaxDescriptionRunes = 4500
	MaxTags             = 30
	DefaultCategoryID   = "17"
	DefaultPrivacy      = "unlisted"
)

// Metadata is the snippet and status of one upload.
type Metadata struct {
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
}

// Sanitized returns m clamped to the limits the upload endpoint accepts.
func (m Metadata) Sanitized() Metadata {
	out := Metadata{
		Title:         textutil.Truncate(strings.TrimSpace(m.Title), MaxTitleRunes),
		Description:   textutil.Truncate(m.Description, MaxDescriptionRunes),
		CategoryID:    strings.TrimSpace(m.CategoryID),
		PrivacyStatus: CoercePrivacy(m.PrivacyStatus),
	}
	if out.CategoryID == "" {
		out.CategoryID = DefaultCategoryID
	}
	for _, tag := range m.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
		if len(out.Tags) == MaxTags {
			break
		}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// CoercePrivacy maps anything other than public, unlisted, or private to unlisted.
func CoercePrivacy(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "public", "unlisted", "private":
		return v
	default:
		return DefaultPrivacy
	}
}

// ParseTags splits a vault TAGS value on commas and semicolons.
func ParseTags(raw string) []string {
	return textutil.SplitList(raw, MaxTags)
}

func (m Metadata) video() *ytapi.Video {
	s := m.Sanitized()
	return &ytapi.Video{
		Snippet: &ytapi.VideoSnippet{
			Title:       s.Title,
			Description: s.Description,
			Tags:        s.Tags,
			CategoryId:  s.CategoryID,
		},
		Status: &ytapi.VideoStatus{PrivacyStatus: s.PrivacyStatus},
	}
}
