// Package request 提供 HTTP 请求数据的合并与描述.
//
// 示例：
//
//	data, err := request.ClientData(r,
//	    request.WithDefaults(map[string]any{"page": "1"}),
//	)
//
//	log.Debug(request.Describe(r))
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime"
	"net/http"
	"net/url"
)

// 错误定义.
var (
	// ErrBodyTooLarge 请求体超过限制.
	ErrBodyTooLarge = errors.New("request: 请求体过大")

	// ErrInvalidBody 请求体无法解析.
	ErrInvalidBody = errors.New("request: 请求体无法解析")
)

// DefaultMaxBodySize 默认请求体大小上限.
const DefaultMaxBodySize int64 = 10 << 20

// Option 配置选项函数.
type Option func(*options)

type options struct {
	defaults      map[string]any
	extras        map[string]any
	bodyOverQuery bool
	maxBodySize   int64
}

func defaultOptions() *options {
	return &options{
		bodyOverQuery: true,
		maxBodySize:   DefaultMaxBodySize,
	}
}

// WithDefaults 设置缺省值，优先级最低.
func WithDefaults(defaults map[string]any) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}

// WithExtras 设置附加值，覆盖缺省值，被请求数据覆盖.
func WithExtras(extras map[string]any) Option {
	return func(o *options) {
		o.extras = extras
	}
}

// WithBodyOverQuery 设置请求体是否覆盖查询参数.
//
// 默认: true.
func WithBodyOverQuery(enabled bool) Option {
	return func(o *options) {
		o.bodyOverQuery = enabled
	}
}

// WithMaxBodySize 设置请求体大小上限.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// ClientData 合并客户端提交的数据.
//
// 优先级从低到高：缺省值、附加值、查询参数、请求体.
// 请求体支持 JSON 对象与表单. 查询参数与表单的多值参数取最后一个值，
// JSON 数组与缺省值中的切片保持原样.
// 读取后请求体会被还原，后续处理器仍可读取.
func ClientData(r *http.Request, opts ...Option) (map[string]any, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	body, err := readBody(r, o.maxBodySize)
	if err != nil {
		return nil, err
	}
	query := fromValues(r.URL.Query())

	data := make(map[string]any, len(o.defaults)+len(o.extras)+len(query)+len(body))
	maps.Copy(data, o.defaults)
	maps.Copy(data, o.extras)
	if o.bodyOverQuery {
		maps.Copy(data, query)
		maps.Copy(data, body)
	} else {
		maps.Copy(data, body)
		maps.Copy(data, query)
	}
	return data, nil
}

func readBody(r *http.Request, limit int64) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	_ = r.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if int64(len(raw)) > limit {
		return nil, ErrBodyTooLarge
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json", "":
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			if mediaType == "" {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return body, nil
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return fromValues(values), nil
	case "multipart/form-data":
		clone := r.Clone(r.Context())
		clone.Body = io.NopCloser(bytes.NewReader(raw))
		if err := clone.ParseMultipartForm(limit); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return fromValues(url.Values(clone.MultipartForm.Value)), nil
	}
	return nil, nil
}

// fromValues 查询参数与表单的多值参数取最后一个值.
func fromValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}
