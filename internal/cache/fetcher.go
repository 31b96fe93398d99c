package cache

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

// Fetcher 负责取回 URL 指向的远端内容，便于在测试中注入假实现。
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch makes FetcherFunc satisfy Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Shared HTTP transport tunings，复用长连接并集中配置超时。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// NewHTTPClient 返回共享 http.Client，timeout <= 0 时使用 30s 兜底。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: defaultTransport.Clone(),
	}
}

// NewHTTPFetcher 基于共享 client 构建 Fetcher。单次 GET，不重试，
// 重定向与超时行为沿用 client 默认值，不触碰文件系统。
func NewHTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &httpFetcher{client: client}
}

type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, wrapNetwork(url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wrapNetwork(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapNetwork(url, err)
	}
	return body, nil
}
