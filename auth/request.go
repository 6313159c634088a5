package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/grpc/metadata"
)

// Request 令牌解析所需的请求视图.
//
// Query 读取查询参数，Header 读取请求头，请求头名称不区分大小写.
// 不存在时均返回空串.
type Request interface {
	Query(name string) string
	Header(name string) string
}

type httpRequest struct {
	r     *http.Request
	query url.Values
}

// HTTPRequest 将 *http.Request 适配为 Request.
func HTTPRequest(r *http.Request) Request {
	return &httpRequest{r: r}
}

func (h *httpRequest) Query(name string) string {
	if h.query == nil {
		h.query = h.r.URL.Query()
	}
	return h.query.Get(name)
}

func (h *httpRequest) Header(name string) string {
	return h.r.Header.Get(name)
}

type metadataRequest struct {
	md metadata.MD
}

// MetadataRequest 将 gRPC 入站元数据适配为 Request.
//
// gRPC 没有查询参数，Query 总是返回空串.
func MetadataRequest(ctx context.Context) Request {
	md, _ := metadata.FromIncomingContext(ctx)
	return metadataRequest{md: md}
}

func (m metadataRequest) Query(string) string {
	return ""
}

func (m metadataRequest) Header(name string) string {
	if values := m.md.Get(name); len(values) > 0 {
		return values[0]
	}
	return ""
}

// MapRequest 基于 map 的 Request 实现，便于测试与非 HTTP 场景.
type MapRequest struct {
	Queries map[string]string
	Headers map[string]string
}

// Query 读取查询参数.
func (m MapRequest) Query(name string) string {
	return m.Queries[name]
}

// Header 读取请求头，名称不区分大小写.
func (m MapRequest) Header(name string) string {
	if v, ok := m.Headers[name]; ok {
		return v
	}
	for k, v := range m.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
