package snapshot

import (
	"bytes"
	"context"
	"io"
	"strings"

	perr "factsongs/internal/platform/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3 stores snapshots as objects in one bucket, optionally under a prefix
type S3 struct {
	api    s3iface.S3API
	bucket string
	prefix string
}

var _ Store = (*S3)(nil)

// NewS3 opens a session from the default credential chain
// a custom Endpoint switches to path-style addressing (minio, localstack)
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, perr.InvalidArgf("snapshot: s3 bucket is required")
	}
	ac := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		ac.Endpoint = aws.String(cfg.Endpoint)
		ac.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(ac)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "snapshot: s3 session")
	}
	return NewS3WithAPI(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewS3WithAPI wraps an existing client
func NewS3WithAPI(api s3iface.S3API, bucket, prefix string) *S3 {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3{api: api, bucket: bucket, prefix: prefix}
}

func (s *S3) objectKey(key string) string { return s.prefix + key }

// Put uploads the document, replacing any previous object
func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: s3 put %s", key)
	}
	return nil
}

// Get downloads one document
func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	out, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if ae, ok := err.(awserr.Error); ok && (ae.Code() == s3.ErrCodeNoSuchKey || ae.Code() == "NotFound") {
			return nil, missing(key)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: s3 get %s", key)
	}
	defer func() { _ = out.Body.Close() }()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: s3 read %s", key)
	}
	return b, nil
}

// List walks every listing page under prefix
func (s *S3) List(ctx context.Context, prefix string) ([]Document, error) {
	var out []Document
	err := s.api.ListObjectsPagesWithContext(ctx, &s3.ListObjectsInput{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.objectKey(prefix)),
	}, func(page *s3.ListObjectsOutput, _ bool) bool {
		for _, o := range page.Contents {
			d := Document{Key: strings.TrimPrefix(aws.StringValue(o.Key), s.prefix), Size: aws.Int64Value(o.Size)}
			if o.LastModified != nil {
				d.UpdatedAt = o.LastModified.UTC()
			}
			out = append(out, d)
		}
		return true
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: s3 list %s", prefix)
	}
	return out, nil
}
