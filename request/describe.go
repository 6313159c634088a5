package request

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/Tsukikage7/go-sugar/logger"
)

// Descriptor HTTP 请求描述器.
type Descriptor struct {
	r *http.Request
}

// NewDescriptor 创建请求描述器.
func NewDescriptor(r *http.Request) *Descriptor {
	return &Descriptor{r: r}
}

// Describe 返回请求的多行文本描述.
func Describe(r *http.Request) string {
	return NewDescriptor(r).String()
}

// BaseInfo 返回基本信息.
func (d *Descriptor) BaseInfo() map[string]string {
	scheme := "http"
	if d.IsSecure() {
		scheme = "https"
	}
	return map[string]string{
		"scheme":      scheme,
		"is_secure":   fmt.Sprint(d.IsSecure()),
		"method":      d.r.Method,
		"path":        d.r.URL.Path,
		"remote_addr": ClientIP(d.r),
	}
}

// IsSecure 判断请求是否经由 TLS，包括代理转发的 https.
func (d *Descriptor) IsSecure() bool {
	return d.r.TLS != nil || strings.EqualFold(d.r.Header.Get("X-Forwarded-Proto"), "https")
}

// Headers 返回请求头，多值以逗号连接.
func (d *Descriptor) Headers() map[string]string {
	out := make(map[string]string, len(d.r.Header))
	for name, values := range d.r.Header {
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// QueryParams 返回查询参数，多值以逗号连接.
func (d *Descriptor) QueryParams() map[string]string {
	query := d.r.URL.Query()
	out := make(map[string]string, len(query))
	for name, values := range query {
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// Detail 返回逐行描述，各段内按名称排序.
func (d *Descriptor) Detail() []string {
	lines := []string{"Base Information:"}
	lines = appendSection(lines, d.BaseInfo())

	if headers := d.Headers(); len(headers) > 0 {
		lines = append(lines, "Headers:")
		lines = appendSection(lines, headers)
	}
	if query := d.QueryParams(); len(query) > 0 {
		lines = append(lines, "Query Dict:")
		lines = appendSection(lines, query)
	}
	return lines
}

func (d *Descriptor) String() string {
	return strings.Join(d.Detail(), "\n")
}

func appendSection(lines []string, m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("\t%s => %s", name, m[name]))
	}
	return lines
}

// HTTPMiddleware 返回在 debug 级别记录请求描述的 HTTP 中间件.
func HTTPMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	log = logger.OrNop(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.WithContext(r.Context()).With(
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.String("remote_addr", ClientIP(r)),
			).Debugf("[Request] 收到请求\n%s", Describe(r))
			next.ServeHTTP(w, r)
		})
	}
}
