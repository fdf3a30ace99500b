// Package s3 stores uploads in Amazon S3 or an S3-compatible service.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/storage"
)

// ParamExpires selects a presigned URL in URLFor. Its value is a Go duration.
const ParamExpires = "expires"

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(_ *storage.Config, providerCfg any, log *logger.Logger) (storage.Backend, error) {
		c, ok := providerCfg.(*Config)
		if !ok || c == nil {
			return nil, fmt.Errorf("s3: expected *s3.Config, got %T", providerCfg)
		}
		s, err := New(context.Background(), c)
		if err != nil {
			return nil, err
		}
		log.Debug("s3 backend configured", logger.Fields("bucket", c.Bucket, "region", c.Region))
		return s, nil
	})
}

// Storage implements storage.Storage using Amazon S3.
type Storage struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	cfg     Config
}

var _ storage.Storage = (*Storage)(nil)

// New creates an S3 backend from cfg.
func New(ctx context.Context, cfg *Config) (*Storage, error) {
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
	}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
		if c.ForcePathStyle {
			o.UsePathStyle = true
		}
	})
	return &Storage{client: client, presign: awss3.NewPresignClient(client), cfg: c}, nil
}

// Describe is used in the startup summary.
func (s *Storage) Describe() string { return "bucket=" + s.cfg.Bucket }

func (s *Storage) key(p string) string {
	p = strings.TrimLeft(p, "/")
	if s.cfg.Prefix == "" {
		return p
	}
	return strings.TrimRight(s.cfg.Prefix, "/") + "/" + p
}

// Save uploads r under path. Non-seekable readers are buffered so the
// request can be signed.
func (s *Storage) Save(ctx context.Context, p string, r io.Reader) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("storage: s3 read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(p)),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("storage: s3 upload: %w", err)
	}
	return nil
}

// URLFor returns the public object URL, or a presigned GET URL when
// params["expires"] holds a duration such as "10m".
func (s *Storage) URLFor(ctx context.Context, p string, params map[string]string) (string, error) {
	if raw, ok := params[ParamExpires]; ok {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return "", fmt.Errorf("storage: s3 invalid %s %q", ParamExpires, raw)
		}
		if d > s.cfg.PresignExpiry {
			d = s.cfg.PresignExpiry
		}
		req, err := s.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(s.key(p)),
		}, awss3.WithPresignExpires(d))
		if err != nil {
			return "", fmt.Errorf("storage: s3 presign: %w", err)
		}
		return req.URL, nil
	}
	return s.publicURL(s.key(p)), nil
}

func (s *Storage) publicURL(key string) string {
	escaped := escapeKey(key)
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + escaped
	}
	opts := s.client.Options()
	if opts.BaseEndpoint != nil && *opts.BaseEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(*opts.BaseEndpoint, "/"), s.cfg.Bucket, escaped)
	}
	if opts.UsePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", opts.Region, s.cfg.Bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, opts.Region, escaped)
}

// Download returns the object body. Missing keys map to storage.ErrNotFound.
func (s *Storage) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, p)
		}
		return nil, fmt.Errorf("storage: s3 download: %w", err)
	}
	return out.Body, nil
}

// Delete removes the object. S3 treats deleting a missing key as success.
func (s *Storage) Delete(ctx context.Context, p string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 delete: %w", err)
	}
	return nil
}

// Exists issues a HEAD request for the object.
func (s *Storage) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: s3 head: %w", err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
