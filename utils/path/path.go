package path

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// RootPath 專案根目錄的絕對路徑（utils/path/path.go 往上兩層）
func RootPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot resolve caller location")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Resolve 相對路徑以 base 為根；絕對路徑原樣回傳
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Exists 路徑是否存在
func Exists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
