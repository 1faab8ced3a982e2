package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputExt 是默认输出文件的扩展名。
const OutputExt = ".mp3"

// InvalidNameError 表示无法从输入路径中提取文件名主干（stem）。
type InvalidNameError struct {
	Path   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("无法从 %q 推导输出文件名：%s", e.Path, e.Reason)
}

// DefaultOutputName 去掉 inputPath 的最后一个扩展名并追加 .mp3。
//
// 只剥离最后一段扩展名：archive.v1.adf -> archive.v1.mp3；没有扩展名时整名保留。
// 目录部分原样保留（dir/song.adf -> dir/song.mp3）。
func DefaultOutputName(inputPath string) (string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return "", &InvalidNameError{Path: inputPath, Reason: "路径为空"}
	}
	if os.IsPathSeparator(inputPath[len(inputPath)-1]) {
		return "", &InvalidNameError{Path: inputPath, Reason: "路径指向目录"}
	}

	dir, base := filepath.Split(inputPath)
	if base == "." || base == ".." {
		return "", &InvalidNameError{Path: inputPath, Reason: "路径指向目录"}
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "", &InvalidNameError{Path: inputPath, Reason: "文件名只有扩展名"}
	}
	return dir + stem + OutputExt, nil
}
