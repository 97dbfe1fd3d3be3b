package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeAPI struct {
	objects map[string]string
	types   map[string]string
	input   *s3.GetObjectInput
}

func (f *fakeAPI) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params

	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}

	out := &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}
	if ct, ok := f.types[aws.ToString(params.Key)]; ok {
		out.ContentType = aws.String(ct)
	}
	return out, nil
}

func TestDownload(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		objects: map[string]string{"resumes/1.txt": "Go developer", "big": strings.Repeat("x", 64)},
		types:   map[string]string{"resumes/1.txt": "text/plain"},
	}
	client := NewWithAPI(api, "uploads", 32)

	data, contentType, err := client.Download(context.Background(), "resumes/1.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "Go developer" || contentType != "text/plain" {
		t.Fatalf("unexpected download %q %q", data, contentType)
	}
	if aws.ToString(api.input.Bucket) != "uploads" {
		t.Fatalf("expected bucket to be passed, got %q", aws.ToString(api.input.Bucket))
	}

	if _, _, err := client.Download(context.Background(), "missing"); err == nil || !strings.Contains(err.Error(), "NoSuchKey") {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if _, _, err := client.Download(context.Background(), "big"); err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size limit error, got %v", err)
	}

	if _, _, err := client.Download(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestNewRequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{}, "secret"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	client, err := New(context.Background(), Config{Bucket: "uploads", Endpoint: "http://127.0.0.1:9000", AccessKey: "id"}, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.bucket != "uploads" {
		t.Fatalf("unexpected bucket %q", client.bucket)
	}
}
