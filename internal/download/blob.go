package download

import (
	"context"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// NotesFetcher retrieves a raw notes file by its blob path.
type NotesFetcher interface {
	FetchNotes(ctx context.Context, path string) ([]byte, error)
}

// BlobFetcher fetches notes from an Azure Blob Storage container. Requests
// are rate limited so a large batch of encounters does not hammer the
// storage account.
type BlobFetcher struct {
	client    *azblob.Client
	container string
	limiter   *rate.Limiter
}

// NewBlobFetcher builds a BlobFetcher from a connection string and container.
// requestsPerSecond caps download throughput; zero or negative disables the
// cap.
func NewBlobFetcher(connectionString, container string, requestsPerSecond float64) (*BlobFetcher, error) {
	if connectionString == "" {
		return nil, eris.New("blob: connection string not configured (set AZURE_STORAGE_CONNECTION_STRING)")
	}
	if container == "" {
		return nil, eris.New("blob: container not configured")
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, eris.Wrap(err, "blob: create client")
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &BlobFetcher{
		client:    client,
		container: container,
		limiter:   rate.NewLimiter(limit, 1),
	}, nil
}

// FetchNotes downloads one blob and returns its contents.
func (b *BlobFetcher) FetchNotes(ctx context.Context, path string) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "blob: rate limiter")
	}

	resp, err := b.client.DownloadStream(ctx, b.container, path, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "blob: download %s", path)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "blob: read %s", path)
	}
	return data, nil
}
