package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

func NewS3Storage(bucket string) (Storage, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion("us-east-1"))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Storage{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
	}, nil
}

func (s *S3Storage) Reader(key string) (io.ReadCloser, error) {
	head, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("heading s3 object %s: %w", key, err)
	}
	object, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("getting s3 object %s: %w", key, err)
	}
	var size int64
	if head.ContentLength != nil {
		size = *head.ContentLength
	}
	return newProgressReader(object.Body, key, size), nil
}

// Writer streams the value into a multipart upload. Close blocks until the
// upload finishes and reports its outcome.
func (s *S3Storage) Writer(key string) (io.WriteCloser, error) {
	reader, writer := io.Pipe()
	w := &uploadWriter{pipe: writer, result: make(chan error, 1)}
	go func() {
		_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
			Bucket: &s.bucket,
			Key:    &key,
			Body:   reader,
		})
		if err != nil {
			_ = reader.CloseWithError(err)
		}
		w.result <- err
	}()
	return w, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}

type uploadWriter struct {
	pipe   *io.PipeWriter
	result chan error
}

func (w *uploadWriter) Write(b []byte) (int, error) {
	return w.pipe.Write(b)
}

func (w *uploadWriter) Close() error {
	if err := w.pipe.Close(); err != nil {
		return err
	}
	return <-w.result
}
