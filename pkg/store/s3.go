package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/berth-web/berth/pkg/ref"
)

// S3 serves entries from an S3 bucket. Roots are "s3://bucket/prefix/"
// references; directories are the usual key-prefix convention with "/"
// as the delimiter.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	st := store.NewS3(s3.NewFromConfig(cfg))
//	dir := dirres.New(ref.New("s3://assets/site/"), st)
type S3 struct {
	client *s3.Client
}

// NewS3 creates an S3-backed entry store from an aws-sdk-go-v2 client.
func NewS3(client *s3.Client) *S3 {
	return &S3{client: client}
}

// split maps a root reference plus relative path to bucket and key.
func (s *S3) split(root *ref.Reference, rel string) (bucket, key string, ok bool) {
	raw := root.String()
	if !strings.HasPrefix(raw, "s3://") {
		return "", "", false
	}
	rest := strings.TrimPrefix(raw, "s3://")
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, prefix + rel, true
}

// List implements EntryStore.
func (s *S3) List(ctx context.Context, root *ref.Reference, rel string) ([]Entry, error) {
	bucket, key, ok := s.split(root, rel)
	if !ok {
		return nil, ErrNotFound
	}
	if key != "" && !strings.HasSuffix(key, "/") {
		key += "/"
	}

	var entries []Entry
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(key),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, cp := range page.CommonPrefixes {
			if cp.Prefix == nil {
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, key), "/")
			if name == "" {
				continue
			}
			entries = append(entries, Entry{Name: name, Dir: true})
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || *obj.Key == key {
				continue
			}
			e := Entry{Name: strings.TrimPrefix(*obj.Key, key)}
			if obj.Size != nil {
				e.Size = *obj.Size
			}
			if obj.LastModified != nil {
				e.ModTime = *obj.LastModified
			}
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 && rel != "" {
		return nil, ErrNotFound
	}
	return entries, nil
}

// Open implements EntryStore.
func (s *S3) Open(ctx context.Context, root *ref.Reference, rel string) (io.ReadCloser, Entry, error) {
	bucket, key, ok := s.split(root, rel)
	if !ok {
		return nil, Entry{}, ErrNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, Entry{}, ErrNotFound
		}
		return nil, Entry{}, err
	}

	entry := Entry{Name: baseName(key)}
	if out.ContentLength != nil {
		entry.Size = *out.ContentLength
	} else {
		entry.Size = -1
	}
	if out.LastModified != nil {
		entry.ModTime = *out.LastModified
	} else {
		entry.ModTime = time.Time{}
	}
	return out.Body, entry, nil
}

// Write implements EntryStore.
func (s *S3) Write(ctx context.Context, root *ref.Reference, rel string, content io.Reader) error {
	bucket, key, ok := s.split(root, rel)
	if !ok {
		return ErrNotFound
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	return err
}

// Remove implements EntryStore.
func (s *S3) Remove(ctx context.Context, root *ref.Reference, rel string) error {
	bucket, key, ok := s.split(root, rel)
	if !ok {
		return ErrNotFound
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

func baseName(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}

func isNoSuchKey(err error) bool {
	var apiErr interface{ ErrorCode() string }
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
