package services

import (
	"errors"
	"fmt"
)

// 預約與查詢的錯誤分類。呼叫端以 errors.Is / errors.As 區分：
// 驗證錯誤在任何資料庫操作前回傳；ErrNoCandidateAvailable 表示交易執行
// 成功但所有候選車位在該時段都被佔用，屬可重試的業務結果；StoreError
// 表示交易本身無法執行，兩者不可混為一談。
var (
	ErrInvalidTimeWindow    = errors.New("start_time must be before end_time")
	ErrEmptyCandidateSet    = errors.New("candidate space list must not be empty")
	ErrNoCandidateAvailable = errors.New("no candidate space is free for the requested window")
)

// StoreError 包裝底層資料庫錯誤，Op 為失敗的操作名稱
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error in %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
