package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/sirupsen/logrus"

	"go-visual-diff/internal/logger"
)

// Publisher pushes a finished run's artifacts to durable remote storage.
type Publisher interface {
	Publish(ctx context.Context, root, runID string) error
}

type azurePublisher struct {
	client    *azblob.Client
	container string
}

// NewAzurePublisher builds a shared-key Azure Blob publisher.
func NewAzurePublisher(accountName, accountKey, container string) (Publisher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azurePublisher{client: client, container: container}, nil
}

// Publish uploads every file under root to <container>/<runID>/<relative
// path>, preserving the baseline/candidate/diff layout.
func (p *azurePublisher) Publish(ctx context.Context, root, runID string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		blobName := runID + "/" + filepath.ToSlash(rel)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := p.client.UploadStream(ctx, p.container, blobName, f, nil); err != nil {
			return fmt.Errorf("upload of %s failed: %w", blobName, err)
		}
		logger.WithFields(logrus.Fields{"blob": blobName}).Debug("Uploaded artifact")
		return nil
	})
}
