package request

import (
	"bytes"
	"crypto/tls"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Tsukikage7/go-sugar/logger"
)

func TestClientData(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		opts        []Option
		want        map[string]any
	}{
		{
			name:   "缺省值被查询参数覆盖",
			target: "/?page=2&size=10",
			opts:   []Option{WithDefaults(map[string]any{"page": "1", "sort": "id"})},
			want:   map[string]any{"page": "2", "size": "10", "sort": "id"},
		},
		{
			name:   "附加值覆盖缺省值",
			target: "/",
			opts: []Option{
				WithDefaults(map[string]any{"a": "default", "b": "default"}),
				WithExtras(map[string]any{"a": "extra"}),
			},
			want: map[string]any{"a": "extra", "b": "default"},
		},
		{
			name:        "请求体覆盖查询参数",
			target:      "/?name=query&q=1",
			contentType: "application/json",
			body:        `{"name":"body","age":3}`,
			want:        map[string]any{"name": "body", "q": "1", "age": float64(3)},
		},
		{
			name:        "查询参数覆盖请求体",
			target:      "/?name=query",
			contentType: "application/json",
			body:        `{"name":"body"}`,
			opts:        []Option{WithBodyOverQuery(false)},
			want:        map[string]any{"name": "query"},
		},
		{
			name:        "多值取最后一个",
			target:      "/?tag=a&tag=b",
			contentType: "application/json; charset=utf-8",
			body:        `{"ids":[1,2,3]}`,
			want:        map[string]any{"tag": "b", "ids": []any{float64(1), float64(2), float64(3)}},
		},
		{
			name:        "JSON 数组与缺省切片保持原样",
			target:      "/",
			contentType: "application/json",
			body:        `{"tags":["x","y"]}`,
			opts:        []Option{WithDefaults(map[string]any{"ids": []string{"1", "2"}})},
			want:        map[string]any{"tags": []any{"x", "y"}, "ids": []string{"1", "2"}},
		},
		{
			name:        "表单",
			target:      "/?x=1",
			contentType: "application/x-www-form-urlencoded",
			body:        "x=2&y=3&y=4",
			want:        map[string]any{"x": "2", "y": "4"},
		},
		{
			name:   "无类型的非 JSON 请求体被忽略",
			target: "/?x=1",
			body:   "plain text",
			want:   map[string]any{"x": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			r := httptest.NewRequest(http.MethodPost, tt.target, body)
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			got, err := ClientData(r, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientData_Multipart(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "alice"))
	require.NoError(t, w.WriteField("name", "bob"))
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/?name=query", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	got, err := ClientData(r)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "bob"}, got)
}

func TestClientData_BodyRestored(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	r.Header.Set("Content-Type", "application/json")

	_, err := ClientData(r)
	require.NoError(t, err)

	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(raw))
}

func TestClientData_Errors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2]`))
	r.Header.Set("Content-Type", "application/json")
	_, err := ClientData(r)
	assert.ErrorIs(t, err, ErrInvalidBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789"}`))
	r.Header.Set("Content-Type", "application/json")
	_, err = ClientData(r, WithMaxBodySize(8))
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "RemoteAddr", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "IPv6", remote: "[::1]:8080", want: "::1"},
		{name: "X-Forwarded-For", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.2"}, remote: "10.0.0.1:1", want: "1.2.3.4"},
		{name: "X-Real-IP", headers: map[string]string{"X-Real-IP": "5.6.7.8"}, remote: "10.0.0.1:1", want: "5.6.7.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}

func TestDescribe(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders?b=2&a=1&a=3", nil)
	r.RemoteAddr = "192.168.1.9:4000"
	r.Header.Set("X-Token", "abc")
	r.Header.Set("Accept", "application/json")

	lines := NewDescriptor(r).Detail()
	assert.Equal(t, []string{
		"Base Information:",
		"\tis_secure => false",
		"\tmethod => GET",
		"\tpath => /orders",
		"\tremote_addr => 192.168.1.9",
		"\tscheme => http",
		"Headers:",
		"\tAccept => application/json",
		"\tX-Token => abc",
		"Query Dict:",
		"\ta => 1, 3",
		"\tb => 2",
	}, lines)
	assert.Equal(t, strings.Join(lines, "\n"), Describe(r))

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https", NewDescriptor(r).BaseInfo()["scheme"])

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	plain.Header = http.Header{}
	assert.NotContains(t, Describe(plain), "Headers:")
	assert.NotContains(t, Describe(plain), "Query Dict:")
}

func TestHTTPMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := HTTPMiddleware(logger.NewFromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "/ping", entry.ContextMap()["path"])
	assert.Contains(t, entry.Message, "Base Information:")
}
