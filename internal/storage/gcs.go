package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"grapher/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile stores any file (notebook, CSV, HTML, etc.) in GCS
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	logger.Infof("Storing file to GCS: gs://%s/%s", g.bucket, filePath)

	bucket := g.client.Bucket(g.bucket)
	obj := bucket.Object(filePath)

	writer := obj.NewWriter(ctx)

	// Set content type based on file extension
	writer.ContentType = GetContentType(filePath)

	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}

	// Close writer to finalize upload
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}

	return nil
}

// GetFile retrieves any file from GCS
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	bucket := g.client.Bucket(g.bucket)
	obj := bucket.Object(filePath)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", filePath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return fileData, nil
}

// FileExists checks if a file exists in GCS
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	bucket := g.client.Bucket(g.bucket)
	obj := bucket.Object(filePath)

	_, err := obj.Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file %s: %w", filePath, err)
	}
	return true, nil
}

// ListNotebooks lists stored notebooks from GCS, sorted by path
func (g *GCSClient) ListNotebooks(ctx context.Context, limit int) ([]string, error) {
	bucket := g.client.Bucket(g.bucket)

	it := bucket.Objects(ctx, &storage.Query{})

	var notebookPaths []string

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		if strings.HasSuffix(attrs.Name, ".ipynb") {
			notebookPaths = append(notebookPaths, attrs.Name)
		}
	}

	sort.Strings(notebookPaths)

	// Apply limit
	if limit > 0 && limit < len(notebookPaths) {
		notebookPaths = notebookPaths[:limit]
	}

	return notebookPaths, nil
}
