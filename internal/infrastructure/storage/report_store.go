// Package storage keeps exported reports in a Google Cloud Storage bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/pkg/helpers"
)

type ReportStore struct {
	Client *storage.Client
	Bucket string
	Logger *logrus.Logger
}

func NewReportStore(client *storage.Client, bucket string, logger *logrus.Logger) *ReportStore {
	return &ReportStore{Client: client, Bucket: bucket, Logger: logger}
}

func (s *ReportStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	url, err := helpers.UploadObject(ctx, s.Client, s.Bucket, name, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload %s to gs://%s: %w", name, s.Bucket, err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"bucket": s.Bucket, "object": name}).Debug("report uploaded")
	}
	return url, nil
}

var _ application.ReportStore = (*ReportStore)(nil)
