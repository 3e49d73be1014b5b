package imagestore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-playground/assert/v2"
)

type fakeUploader struct {
	key         string
	bucket      string
	contentType string
	body        []byte
}

func (f *fakeUploader) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = aws.ToString(in.Key)
	f.bucket = aws.ToString(in.Bucket)
	f.contentType = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestMirrorUploadsDownloadedImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	up := &fakeUploader{}
	m := newS3Mirror(up, "newsapi", "https://cdn.example/")
	m.now = func() time.Time { return time.Unix(1700000000, 0) }

	got, err := m.Mirror(context.Background(), srv.URL+"/img", "rain in the city")
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}

	assert.Equal(t, "https://cdn.example/news/rain-in-the-city-1700000000.jpg", got)
	assert.Equal(t, "newsapi", up.bucket)
	assert.Equal(t, "news/rain-in-the-city-1700000000.jpg", up.key)
	assert.Equal(t, "image/jpeg", up.contentType)
	assert.Equal(t, "jpeg-bytes", string(up.body))
}

func TestMirrorFailsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	up := &fakeUploader{}
	_, err := newS3Mirror(up, "newsapi", "https://cdn.example").Mirror(context.Background(), srv.URL, "a")
	if err == nil {
		t.Fatalf("expected error")
	}
	assert.Equal(t, "", up.key)
}
