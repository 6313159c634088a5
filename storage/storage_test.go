package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC) }

func TestSavePolicy_Name(t *testing.T) {
	tests := []struct {
		name   string
		policy SavePolicy
		input  string
		want   string
	}{
		{name: "空策略", policy: SavePolicy{}, input: "a.png", want: "a.png"},
		{name: "应用前缀", policy: SavePolicy{Application: "avatar"}, input: "a.png", want: "avatar/a.png"},
		{
			name:   "时间戳目录",
			policy: SavePolicy{TimestampLayout: DefaultTimestampLayout, Now: fixedNow},
			input:  "a.png",
			want:   "2024-06-01/a.png",
		},
		{
			name:   "完整策略",
			policy: SavePolicy{Application: "doc", TimestampLayout: "2006/01", Suffix: StaticSuffix(".bak"), Now: fixedNow},
			input:  "a.txt",
			want:   "doc/2024/06/a.txt.bak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Name(tt.input))
		})
	}

	suffix := SavePolicy{Suffix: UUIDSuffix()}.SuffixValue()
	assert.Len(t, suffix, 33)
	assert.True(t, strings.HasPrefix(suffix, "_"))
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"", "/etc/passwd", "..", "../x", "a/../../x", "."} {
		_, err := validName(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}

	clean, err := validName("a/./b//c.txt")
	require.NoError(t, err)
	assert.Equal(t, "a/b/c.txt", clean)
}

func TestFileSystemStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs := NewFileSystemStorage(root, WithSavePolicy(SavePolicy{
		Application:     "app",
		TimestampLayout: DefaultTimestampLayout,
		Now:             fixedNow,
	}))

	name, err := fs.Save(ctx, "hello.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "app/2024-06-01/hello.txt", name)

	raw, err := os.ReadFile(filepath.Join(root, "app", "2024-06-01", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))

	ok, err := fs.Exists(ctx, name)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := fs.Open(ctx, name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	again, err := fs.Save(ctx, "hello.txt", strings.NewReader("again"))
	require.NoError(t, err)
	assert.NotEqual(t, name, again)
	assert.True(t, strings.HasPrefix(again, "app/2024-06-01/hello_"))
	assert.True(t, strings.HasSuffix(again, ".txt"))

	require.NoError(t, fs.Delete(ctx, name))
	ok, err = fs.Exists(ctx, name)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, fs.Delete(ctx, name))

	_, err = fs.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fs.Open(ctx, "../outside")
	assert.ErrorIs(t, err, ErrInvalidName)

	rc, err = fs.Open(ctx, again+"/child")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.True(t, rc == nil, "出错时返回无类型的 nil")
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	st := NewS3Storage(client, "bucket", WithSavePolicy(SavePolicy{Application: "img"}))
	assert.Equal(t, "bucket", st.Bucket())

	key, err := st.Save(ctx, "logo.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "img/logo.png", key)
	assert.Equal(t, "image/png", client.types[key])

	ok, err := st.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := st.Save(ctx, "logo.png", bytes.NewReader([]byte("png2")))
	require.NoError(t, err)
	assert.NotEqual(t, key, again)
	assert.Equal(t, []byte("png2"), client.objects[again])

	rc, err := st.Open(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "png", string(data))

	require.NoError(t, st.Delete(ctx, key))
	_, err = st.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = st.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Panics(t, func() { NewS3Storage(nil, "b") })
}

func TestSeekable(t *testing.T) {
	r := bytes.NewReader([]byte("0123456789"))
	_, _ = r.Seek(4, io.SeekStart)
	body, size, err := seekable(r)
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)
	rest, _ := io.ReadAll(body)
	assert.Equal(t, "456789", string(rest))

	_, size, err = seekable(io.LimitReader(strings.NewReader("abcdef"), 3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestConfig(t *testing.T) {
	var nilConfig *Config
	assert.ErrorIs(t, nilConfig.Validate(), ErrNilConfig)

	c := &Config{Type: TypeS3}
	c.ApplyDefaults()
	assert.Error(t, c.Validate())
	c.S3.Bucket = "b"
	assert.NoError(t, c.Validate())

	assert.Error(t, (&Config{Type: "ftp"}).Validate())

	policy := PolicyConfig{Application: "a", Suffix: ".x"}.SavePolicy()
	assert.Equal(t, "a/f.x", policy.Name("f"))
	policy = PolicyConfig{Suffix: ".x", UUIDSuffix: true}.SavePolicy()
	assert.Len(t, policy.Name("f"), 1+33)
}

func TestNew(t *testing.T) {
	root := t.TempDir()
	st, err := New(context.Background(), &Config{Root: root}, nil)
	require.NoError(t, err)
	fs, ok := st.(*FileSystemStorage)
	require.True(t, ok)
	assert.Equal(t, root, fs.Root())

	_, err = New(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = New(context.Background(), &Config{Type: TypeS3}, nil)
	assert.Error(t, err)
}
