package errors

import "errors"

// ErrWriteConflict 写冲突：记录已被其他事务修改，调用方应基于最新状态重试整个操作
var ErrWriteConflict = errors.New("数据已被其他操作修改，请重试")
