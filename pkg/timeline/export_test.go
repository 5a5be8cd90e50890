package timeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/haivivi/pioneer/pkg/timeline"
)

func TestExport_Local(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "exports")

	sink, err := timeline.NewLocalSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	loc, err := timeline.NewExporter(sink).Export(ctx, sample("rec-1"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if want := filepath.Join(dir, "rec-1.json"); loc != want {
		t.Errorf("location = %q, want %q", loc, want)
	}

	data, err := os.ReadFile(loc)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Name   string `json:"name"`
		Events []struct {
			EventType   string `json:"eventType"`
			ComponentID string `json:"componentId"`
			Timestamp   uint64 `json:"timestamp"`
		} `json:"events"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("exported file is not JSON: %v", err)
	}
	if got.Name != "rec-1" || len(got.Events) != 2 || got.Events[1].ComponentID != "rec" {
		t.Errorf("exported = %+v", got)
	}
	if !strings.Contains(string(data), "\n  \"events\"") {
		t.Error("export is not indented")
	}
}

func TestExport_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	sink, err := timeline.NewLocalSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := timeline.NewExporter(sink).Export(ctx, sample("rec-1")); err != nil {
		t.Fatal(err)
	}
	if _, err := timeline.NewExporter(sink).Export(ctx, sample("rec-1")); !errors.Is(err, timeline.ErrExists) {
		t.Errorf("second Export err = %v, want ErrExists", err)
	}
	if _, err := timeline.NewExporter(sink, timeline.WithOverwrite()).Export(ctx, sample("rec-1")); err != nil {
		t.Errorf("Export with overwrite: %v", err)
	}
}

// apiError implements smithy.APIError.
type apiError struct {
	code string
}

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// mockS3 is an in-memory bucket.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	headErr error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte)}
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestExport_S3(t *testing.T) {
	ctx := context.Background()
	client := newMockS3()
	sink := timeline.NewS3Sink(client, "recordings", "pioneer/2026")

	loc, err := timeline.NewExporter(sink).Export(ctx, sample("rec-1"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if want := "s3://recordings/pioneer/2026/rec-1.json"; loc != want {
		t.Errorf("location = %q, want %q", loc, want)
	}
	data, ok := client.objects["recordings/pioneer/2026/rec-1.json"]
	if !ok {
		t.Fatalf("object not uploaded; have %v", client.objects)
	}
	if !json.Valid(data) {
		t.Errorf("uploaded object is not JSON: %q", data)
	}

	if _, err := timeline.NewExporter(sink).Export(ctx, sample("rec-1")); !errors.Is(err, timeline.ErrExists) {
		t.Errorf("second Export err = %v, want ErrExists", err)
	}
}

func TestExport_S3Errors(t *testing.T) {
	ctx := context.Background()

	denied := &apiError{code: "AccessDenied"}
	client := newMockS3()
	client.headErr = denied
	if _, err := timeline.NewExporter(timeline.NewS3Sink(client, "b", "")).Export(ctx, sample("rec-1")); !errors.Is(err, denied) {
		t.Errorf("head failure err = %v, want AccessDenied", err)
	}

	client = newMockS3()
	client.putErr = denied
	if _, err := timeline.NewExporter(timeline.NewS3Sink(client, "b", "")).Export(ctx, sample("rec-1")); !errors.Is(err, denied) {
		t.Errorf("put failure err = %v, want AccessDenied", err)
	}
}

func TestExport_S3Endpoint(t *testing.T) {
	type put struct {
		path   string
		length int64
		body   []byte
	}
	var (
		mu   sync.Mutex
		puts []put
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			mu.Lock()
			puts = append(puts, put{path: r.URL.Path, length: r.ContentLength, body: body})
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	client := timeline.NewS3Client(timeline.S3Config{
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	})
	loc, err := timeline.NewExporter(timeline.NewS3Sink(client, "recordings", "pioneer")).Export(context.Background(), sample("rec-1"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if want := "s3://recordings/pioneer/rec-1.json"; loc != want {
		t.Errorf("location = %q, want %q", loc, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(puts) != 1 {
		t.Fatalf("got %d PUT requests, want 1", len(puts))
	}
	p := puts[0]
	if p.path != "/recordings/pioneer/rec-1.json" {
		t.Errorf("PUT path = %q", p.path)
	}
	if p.length <= 0 || p.length != int64(len(p.body)) {
		t.Errorf("Content-Length = %d, body = %d bytes", p.length, len(p.body))
	}
	if !json.Valid(p.body) {
		t.Errorf("uploaded body is not JSON: %q", p.body)
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		in             string
		bucket, prefix string
		wantErr        bool
	}{
		{"s3://bucket", "bucket", "", false},
		{"s3://bucket/", "bucket", "", false},
		{"s3://bucket/a/b/", "bucket", "a/b", false},
		{"s3:///a", "", "", true},
		{"/tmp/out", "", "", true},
	}
	for _, tt := range tests {
		bucket, prefix, err := timeline.ParseS3URL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseS3URL(%q) succeeded", tt.in)
			}
			continue
		}
		if err != nil || bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("ParseS3URL(%q) = %q, %q, %v; want %q, %q", tt.in, bucket, prefix, err, tt.bucket, tt.prefix)
		}
	}
}
