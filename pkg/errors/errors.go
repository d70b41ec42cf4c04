package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("record was modified by another request, please retry")

// ErrDuplicate 唯一约束冲突（用户邮箱、作物名称、适宜性三元组）
var ErrDuplicate = errors.New("record already exists")
