package assets

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/stream"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"logo.png", true},
		{"slide-1.svg", true},
		{"", false},
		{".env", false},
		{"../secret", false},
		{"img/logo.png", false},
		{`img\logo.png`, false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDirStore(t *testing.T) {
	dir := writeFiles(t, map[string]string{"b.svg": "<svg/>", "a.png": "png", ".hidden": "x"})
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)
	store := NewDirStore(dir)
	ctx := context.Background()

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"a.png", "b.svg"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	a, err := store.Open(ctx, "b.svg")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Body.Close()
	body, _ := io.ReadAll(a.Body)
	if string(body) != "<svg/>" || a.Size != 6 || a.ContentType != "image/svg+xml" {
		t.Errorf("asset = %q size %d type %q", body, a.Size, a.ContentType)
	}

	for _, name := range []string{"missing.png", "sub", "../b.svg"} {
		if _, err := store.Open(ctx, name); !errors.Is(err, "E300") {
			t.Errorf("Open(%q) error = %v, want E300", name, err)
		}
	}

	if _, err := NewDirStore(filepath.Join(dir, "nope")).List(ctx); !errors.Is(err, "E301") {
		t.Errorf("List on missing dir = %v, want E301", err)
	}
}

// fakeS3 serves objects from a map and pages listings two keys at a time.
type fakeS3 struct {
	objects map[string]string
	fail    error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		LastModified:  aws.Time(time.Unix(1700000000, 0)),
	}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + 2
	out := &s3.ListObjectsV2Output{}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[end])
	} else {
		end = len(keys)
	}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"talk/logo.png":    "png",
		"talk/marbles.gif": "gif",
		"talk/slide.svg":   "svg",
		"talk/nested/x":    "x",
		"other/logo.png":   "other",
	}}
	store := NewS3Store(client, "decks", "talk/")
	ctx := context.Background()

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"logo.png", "marbles.gif", "slide.svg"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	a, err := store.Open(ctx, "logo.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(a.Body)
	a.Body.Close()
	if string(body) != "png" || a.ContentType != "image/png" || a.Size != 3 || a.ModTime.IsZero() {
		t.Errorf("asset = %+v body %q", a, body)
	}

	if _, err := store.Open(ctx, "gone.png"); !errors.Is(err, "E300") {
		t.Errorf("Open missing = %v, want E300", err)
	}

	client.fail = stderrors.New("throttled")
	if _, err := store.Open(ctx, "logo.png"); !errors.Is(err, "E301") {
		t.Errorf("Open with backend failure = %v, want E301", err)
	}
	if _, err := store.List(ctx); !errors.Is(err, "E301") {
		t.Errorf("List with backend failure = %v, want E301", err)
	}
}

func TestNewS3Client(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "token")

	c, err := NewS3Client(context.Background(), S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	if err != nil {
		t.Fatalf("NewS3Client: %v", err)
	}
	opts := c.Options()
	if opts.Region != "eu-west-1" || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" || !opts.UsePathStyle {
		t.Errorf("options = region %q endpoint %q path style %v", opts.Region, aws.ToString(opts.BaseEndpoint), opts.UsePathStyle)
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKIDEXAMPLE" || creds.SecretAccessKey != "secret" || creds.SessionToken != "token" {
		t.Errorf("credentials = %+v, want the environment keys", creds)
	}
}

func TestNewS3ClientMissingProfile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))

	_, err := NewS3Client(context.Background(), S3Config{Region: "eu-west-1", Profile: "nope"})
	if !errors.Is(err, "E301") {
		t.Errorf("NewS3Client with unknown profile = %v, want E301", err)
	}
}

type brokenStore struct{ Store }

func (brokenStore) Open(context.Context, string) (*Asset, error) {
	return nil, errors.New("E301")
}

func TestHandler(t *testing.T) {
	dir := writeFiles(t, map[string]string{"logo.png": "png-bytes"})
	r := chi.NewRouter()
	r.Get("/assets/{name}", Handler(NewDirStore(dir), nil).ServeHTTP)
	r.Get("/broken/{name}", Handler(brokenStore{}, nil).ServeHTTP)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/assets/logo.png", http.StatusOK, "png-bytes"},
		{"/assets/missing.png", http.StatusNotFound, ""},
		{"/broken/logo.png", http.StatusBadGateway, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.status)
		}
		if tt.body != "" && rec.Body.String() != tt.body {
			t.Errorf("GET %s body = %q, want %q", tt.path, rec.Body.String(), tt.body)
		}
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/logo.png", nil))
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}
	if got := rec.Header().Get("Cache-Control"); got == "" {
		t.Error("Cache-Control not set")
	}
}

func TestResolver(t *testing.T) {
	if got := NewResolver("/assets").URL("logo.png"); got != "/assets/logo.png" {
		t.Errorf("URL = %q", got)
	}
	if got := NewResolver("https://cdn.example.com/deck/").URL("a.svg"); got != "https://cdn.example.com/deck/a.svg" {
		t.Errorf("URL = %q", got)
	}
}

// chanScheduler hands dispatched callbacks to the test goroutine.
type chanScheduler chan func()

func (c chanScheduler) Dispatch(fn func()) { c <- fn }

func TestPreload(t *testing.T) {
	store := NewDirStore(writeFiles(t, map[string]string{"a.png": "a", "b.png": "b"}))
	sched := make(chanScheduler, 8)
	rec := &stream.Recorder[Progress]{}

	sub := Preload(context.Background(), store, []string{"a.png", "missing.png", "b.png"}, sched).Subscribe(rec.Observer())
	defer sub.Release()

	if len(rec.Values) != 1 || rec.Values[0].Loaded != 0 || rec.Values[0].Total != 3 {
		t.Fatalf("initial values = %+v, want one empty progress", rec.Values)
	}

	timeout := time.After(2 * time.Second)
	for !rec.Completed {
		select {
		case fn := <-sched:
			fn()
		case <-timeout:
			t.Fatal("preload did not complete")
		}
	}

	last := rec.Values[len(rec.Values)-1]
	want := Progress{Loaded: 2, Total: 3, Failed: []string{"missing.png"}}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("final progress mismatch (-want +got):\n%s", diff)
	}
	if !last.Done() {
		t.Error("Done() = false after completion")
	}
	if len(rec.Values) != 4 {
		t.Errorf("emitted %d values, want 4", len(rec.Values))
	}
}

func TestPreloadEmpty(t *testing.T) {
	rec := &stream.Recorder[Progress]{}
	Preload(context.Background(), NewDirStore(t.TempDir()), nil, stream.Immediate).Subscribe(rec.Observer())
	if !rec.Completed || len(rec.Values) != 1 || !rec.Values[0].Done() {
		t.Errorf("recorder = %+v, want one done value and completion", rec)
	}
}

func TestPreloadReleaseStops(t *testing.T) {
	store := NewDirStore(writeFiles(t, map[string]string{"a.png": "a"}))
	sched := make(chanScheduler, 8)
	rec := &stream.Recorder[Progress]{}

	sub := Preload(context.Background(), store, []string{"a.png"}, sched).Subscribe(rec.Observer())
	sub.Release()

	// Anything already dispatched is dropped after release.
	deadline := time.After(100 * time.Millisecond)
	for done := false; !done; {
		select {
		case fn := <-sched:
			fn()
		case <-deadline:
			done = true
		}
	}
	if len(rec.Values) != 1 || rec.Completed {
		t.Errorf("recorder after release = %+v, want only the initial value", rec)
	}
}
