package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/sas-financier/internal/errs"
)

// objectStore holds receipts, logos and profile photos in one Cloud Storage
// bucket under per-kind prefixes.
type objectStore struct {
	bucket  *storage.BucketHandle
	baseURL string
}

// NewObjectStore serves public URLs from baseURL, defaulting to
// https://storage.googleapis.com/<bucket>.
func NewObjectStore(client *storage.Client, bucket, baseURL string) *objectStore {
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + bucket
	}
	return &objectStore{
		bucket:  client.Bucket(bucket),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload writes data to path. Without overwrite an existing object is an error.
func (s *objectStore) Upload(ctx context.Context, path, contentType string, data []byte, overwrite bool) error {
	obj := s.bucket.Object(path)
	if !overwrite {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return errs.NewExternalServiceError("storage", "failed to upload "+path, true, err)
	}
	if err := w.Close(); err != nil {
		return errs.NewExternalServiceError("storage", "failed to upload "+path, true, err)
	}
	return nil
}

func (s *objectStore) PublicURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, strings.Join(segments, "/"))
}

// Remove deletes the given objects; objects that are already gone are ignored.
func (s *objectStore) Remove(ctx context.Context, paths ...string) error {
	var errList []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := s.bucket.Object(p).Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			errList = append(errList, err)
		}
	}
	if len(errList) > 0 {
		return errs.NewExternalServiceError("storage", "failed to remove objects", true, errors.Join(errList...))
	}
	return nil
}
