package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/foodgram/backend/config"
)

const dataURIPrefix = "data:image"

// DecodedImage is the result of decoding an inline image payload.
type DecodedImage struct {
	Data []byte
	Ext  string
}

// Filename returns a placeholder filename carrying the inferred
// extension, e.g. "image.png".
func (d *DecodedImage) Filename() string {
	return "image." + d.Ext
}

// DecodeImage decodes a "data:image/<subtype>;base64,<body>" payload
// into binary content with the subtype as file extension. Payloads that
// do not start with the inline-image marker are not an error: the
// caller keeps them as-is (typically an already-stored URL), so nil is
// returned for both values.
func DecodeImage(payload string) (*DecodedImage, error) {
	if !strings.HasPrefix(payload, dataURIPrefix) {
		return nil, nil
	}

	format, body, ok := strings.Cut(payload, ";base64,")
	if !ok {
		return nil, fmt.Errorf("%w: image payload missing base64 delimiter", ErrInvalidField)
	}
	_, ext, ok := strings.Cut(format, "/")
	if !ok || ext == "" {
		return nil, fmt.Errorf("%w: image payload missing subtype", ErrInvalidField)
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base64 image payload", ErrInvalidField)
	}

	return &DecodedImage{Data: data, Ext: ext}, nil
}

// MediaStore persists decoded image content and returns an addressable
// URL for it.
type MediaStore interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
}

// S3MediaStore stores images in the configured S3 bucket.
type S3MediaStore struct {
	s3 *config.S3Config
}

func NewS3MediaStore(s3 *config.S3Config) *S3MediaStore {
	return &S3MediaStore{s3: s3}
}

func (s *S3MediaStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	contentType := "image/" + strings.TrimPrefix(filepath.Ext(key), ".")
	return s.s3.PutObject(ctx, key, contentType, data)
}

// LocalMediaStore writes images under a local directory and addresses
// them via the server's /media/ route. Used when S3 is not configured.
type LocalMediaStore struct {
	dir     string
	baseURL string
}

func NewLocalMediaStore(dir, baseURL string) *LocalMediaStore {
	return &LocalMediaStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalMediaStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.baseURL + "/media/" + key, nil
}
