package share

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3 is a fake S3 endpoint that accepts PutObject.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string]mockObject
	status  int
}

type mockObject struct {
	body        []byte
	contentType string
}

func (m *mockS3) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != 0 {
		return &http.Response{StatusCode: m.status, Body: io.NopCloser(strings.NewReader("<Error><Code>AccessDenied</Code></Error>")), Header: http.Header{"Content-Type": {"application/xml"}}}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}

	body, _ := io.ReadAll(req.Body)
	// Path style: /bucket/key...
	key := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)[1]
	m.objects[key] = mockObject{body: body, contentType: req.Header.Get("Content-Type")}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
}

func newMockPublisher(t *testing.T, cfg S3Config) (*S3, *mockS3) {
	t.Helper()
	rt := &mockS3{objects: make(map[string]mockObject)}
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return newS3(client, cfg), rt
}

func TestS3Publish(t *testing.T) {
	p, rt := newMockPublisher(t, S3Config{Bucket: "skrinja", Prefix: "labels", Expiry: time.Hour})

	link, err := p.Publish(context.Background(), "garage.pdf", "application/pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)

	obj, ok := rt.objects["labels/garage.pdf"]
	require.True(t, ok, "object not uploaded: %v", rt.objects)
	assert.Equal(t, "%PDF-1.3", string(obj.body))
	assert.Equal(t, "application/pdf", obj.contentType)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/skrinja/labels/garage.pdf", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3DefaultExpiry(t *testing.T) {
	p, _ := newMockPublisher(t, S3Config{Bucket: "skrinja"})
	assert.Equal(t, DefaultExpiry, p.expiry)
}

func TestS3PublishError(t *testing.T) {
	p, rt := newMockPublisher(t, S3Config{Bucket: "skrinja"})
	rt.status = http.StatusForbidden

	_, err := p.Publish(context.Background(), "x.pdf", "application/pdf", []byte("x"))
	assert.Error(t, err)
}
