// Package errors 定义跨层共享的持久化错误
package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突
// 用户、部门、班次类型与排休规则的更新按 version 列做条件写，
// 条件失配（并发修改或版本过期）时仓储层返回本错误，由调用方提示重试
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
