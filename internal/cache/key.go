package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DefaultExtension 是扩展名不在白名单或缺失时使用的兜底后缀。
const DefaultExtension = "bin"

// knownExtensions 列出允许直接落盘的后缀。扩展名只影响缓存文件名的
// 可读性，不参与哈希，因此白名单之外的类型统一归入 bin。
var knownExtensions = map[string]struct{}{
	// 图片
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
	"bmp": {}, "svg": {}, "ico": {},
	// 视频
	"mp4": {}, "avi": {}, "mov": {}, "mkv": {}, "webm": {},
	"flv": {}, "wmv": {}, "m4v": {},
	// 音频
	"mp3": {}, "wav": {}, "ogg": {}, "flac": {}, "m4a": {},
	"aac": {}, "wma": {},
	// 文档
	"pdf": {}, "txt": {}, "doc": {}, "docx": {}, "xls": {},
	"xlsx": {}, "ppt": {}, "pptx": {}, "csv": {}, "json": {},
	"xml": {},
	// 压缩包
	"zip": {}, "rar": {}, "7z": {}, "tar": {}, "gz": {},
	// 代码
	"js": {}, "ts": {}, "jsx": {}, "tsx": {}, "py": {},
	"java": {}, "cpp": {}, "c": {}, "go": {}, "rs": {},
	"html": {}, "css": {},
}

// DeriveKey 将 URL 映射为稳定的缓存键：sha256 十六进制摘要 + 推断的扩展名。
// 摘要覆盖完整 URL（含查询串），扩展名仅来自去掉查询串后的末段路径。
// 纯函数，无 I/O，对相同输入永远返回相同结果。
func DeriveKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:]) + "." + inferExtension(url)
}

// inferExtension 提取末段路径的点后缀并做白名单匹配，未命中时退回 bin。
func inferExtension(url string) string {
	withoutQuery := url
	if idx := strings.IndexByte(url, '?'); idx >= 0 {
		withoutQuery = url[:idx]
	}

	segment := withoutQuery
	if idx := strings.LastIndexByte(withoutQuery, '/'); idx >= 0 {
		segment = withoutQuery[idx+1:]
	}

	dot := strings.LastIndexByte(segment, '.')
	if dot < 0 || dot == len(segment)-1 {
		return DefaultExtension
	}

	ext := strings.ToLower(segment[dot+1:])
	if _, ok := knownExtensions[ext]; ok {
		return ext
	}
	return DefaultExtension
}
