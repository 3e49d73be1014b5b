package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
)

// Ссылки от генератора картинок живут около часа, поэтому картинку копируем в бакет
type uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// Публичный адрес бакета, к нему дописывается ключ объекта
	PublicURL string
}

type S3Mirror struct {
	client    uploader
	http      *resty.Client
	bucket    string
	publicURL string
	prefix    string
	now       func() time.Time
}

func NewS3Mirror(ctx context.Context, cfg Config) (*S3Mirror, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Mirror(client, cfg.Bucket, cfg.PublicURL), nil
}

func newS3Mirror(client uploader, bucket, publicURL string) *S3Mirror {
	return &S3Mirror{
		client: client,
		http: resty.New().
			SetTimeout(60 * time.Second),
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		prefix:    "news",
		now:       time.Now,
	}
}

// Mirror скачивает картинку и кладет ее в бакет под именем news/<name>-<unix>.<ext>
func (m *S3Mirror) Mirror(ctx context.Context, imageURL, name string) (string, error) {
	resp, err := m.http.R().
		SetContext(ctx).
		Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d downloading image", resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(resp.Body())
	}

	key := path.Join(m.prefix, fmt.Sprintf("%s-%d%s", safeName(name), m.now().Unix(), extension(contentType)))

	if _, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(resp.Body()),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("upload image %s: %w", key, err)
	}

	url := m.publicURL + "/" + key

	logger.Get().Info().
		Str("key", key).
		Int("bytes", len(resp.Body())).
		Msg("image mirrored")

	return url, nil
}

func extension(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/jpeg"):
		return ".jpg"
	case strings.HasPrefix(contentType, "image/webp"):
		return ".webp"
	default:
		return ".png"
	}
}

func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	if name == "" {
		return "image"
	}

	return name
}
