package cache

import "fmt"

// StatusError 表示上游返回了非 2xx 状态码，下载按失败处理而非空结果。
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("下载失败，HTTP 状态码: %d", e.Code)
}

// wrapIO/wrapNetwork 统一错误前缀，便于日志与 CLI 按类别定位。
func wrapIO(action string, err error) error {
	return fmt.Errorf("%s: %w", action, err)
}

func wrapNetwork(url string, err error) error {
	return fmt.Errorf("下载 %s 失败: %w", url, err)
}
