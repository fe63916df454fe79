package imagestore

import (
	"context"
	"io"
)

// ImageStore serves the guide images referenced by guide_item.image_path.
type ImageStore interface {
	Get(ctx context.Context, name string) (io.ReadCloser, string, error)
	Exists(ctx context.Context, name string) (bool, error)
}
