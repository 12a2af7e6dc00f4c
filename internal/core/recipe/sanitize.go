package recipe

import (
	"regexp"
	"strings"
)

var fenceMarker = regexp.MustCompile("(?i)```(json)?")

// Sanitize 移除模型回應中所有 code fence 標記並去除首尾空白，其餘內容不變
func Sanitize(raw string) string {
	return strings.TrimSpace(fenceMarker.ReplaceAllString(raw, ""))
}
