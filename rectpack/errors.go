package rectpack

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPacking 表示所有排序启发式都无法在最大尺寸内放下全部矩形。
	// Pack 返回的 *NoPackingError 可以用 errors.Is 与它匹配。
	ErrNoPacking = textErr("no packing found")
	// ErrInvalidSize 表示输入中存在负的宽度或高度。
	ErrInvalidSize = textErr("invalid size")
	// ErrNoHeuristics 表示没有配置任何排序启发式。
	ErrNoHeuristics = textErr("no heuristics")
)

const packageName = "rectpack: "

// NoPackingError 在打包失败时返回，附带失败尝试中填入的最大面积，仅用于诊断。
type NoPackingError struct {
	BestArea int64
}

func (e *NoPackingError) Error() string {
	return fmt.Sprintf("%s (best attempt filled %d square units)", ErrNoPacking, e.BestArea)
}

func (e *NoPackingError) Is(target error) bool {
	return target == ErrNoPacking
}

func textErr(text string) error {
	return errors.New(packageName + text)
}

func fmtErr(format string, a ...interface{}) error {
	return fmt.Errorf(packageName+format, a...)
}

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

func fmtPanic(format string, a ...interface{}) {
	panic(fmt.Sprintf(packageName+format, a...))
}
