// Package youtube uploads rendered videos to a channel: a refresh-token
// exchange through golang.org/x/oauth2 followed by one multipart upload
// carrying the JSON metadata and the MP4 bytes.
package youtube
