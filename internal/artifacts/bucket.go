package artifacts

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob" // mem:// URLs
)

// OpenOutput opens the render output location. Plain paths use the local
// filesystem driver; anything with a scheme goes through blob.OpenBucket.
func OpenOutput(ctx context.Context, location string) (*blob.Bucket, error) {
	if strings.Contains(location, "://") {
		bucket, err := blob.OpenBucket(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("open bucket %s: %w", location, err)
		}
		return bucket, nil
	}
	if err := os.MkdirAll(location, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", location, err)
	}
	bucket, err := fileblob.OpenBucket(location, &fileblob.Options{NoTempDir: true, Metadata: fileblob.MetadataDontWrite})
	if err != nil {
		return nil, fmt.Errorf("open output dir %s: %w", location, err)
	}
	return bucket, nil
}
