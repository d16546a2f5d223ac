package staging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/proshka/feedback-bot/pkg/gateway"
)

// Source is an inbound photo resolvable to a byte stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Uploader publishes a local file and returns its shareable link.
type Uploader interface {
	UploadAndPublish(ctx context.Context, localPath, desiredName string) (string, error)
}

// Stager bridges an inbound photo to a durable public link with no local-disk
// residue on either the success or the failure path.
type Stager struct {
	uploader Uploader
	dir      string
}

// NewStager creates a new stager writing temp files under the system temp dir.
func NewStager(uploader Uploader) *Stager {
	return &Stager{
		uploader: uploader,
		dir:      os.TempDir(),
	}
}

// StageAndUpload writes the photo to a uniquely named temporary file, uploads
// it and removes the local copy whether the upload succeeded or failed.
func (s *Stager) StageAndUpload(ctx context.Context, src Source, ownerID int64) (string, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: fetching photo: %v", gateway.ErrUpload, err)
	}
	defer rc.Close()

	// Owner id plus timestamp plus nonce keeps concurrent conversations
	// from colliding on the same name.
	stamp := time.Now().Format("20060102150405")
	path := filepath.Join(s.dir, fmt.Sprintf("photo_%d_%s_%s.jpg", ownerID, stamp, uuid.NewString()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: staging %s: %v", gateway.ErrUpload, path, err)
	}
	defer os.Remove(path)

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: staging %s: %v", gateway.ErrUpload, path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: staging %s: %v", gateway.ErrUpload, path, err)
	}

	name := fmt.Sprintf("Feedback_Photo_%d_%s.jpg", ownerID, stamp)
	return s.uploader.UploadAndPublish(ctx, path, name)
}
