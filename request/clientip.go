package request

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP 返回客户端 IP.
//
// 依次检查 X-Forwarded-For 的第一个地址、X-Real-IP 与 RemoteAddr.
func ClientIP(r *http.Request) string {
	if ip := parseXForwardedFor(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return hostOnly(ip)
	}
	return hostOnly(r.RemoteAddr)
}

// parseXForwardedFor 返回 "client, proxy1, proxy2" 中最原始的客户端.
func parseXForwardedFor(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	return hostOnly(strings.TrimSpace(first))
}

// hostOnly 去掉端口与 IPv6 方括号.
func hostOnly(addr string) string {
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")
}
