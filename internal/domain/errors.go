package domain

import "errors"

var (
	ErrDuplicateDietaryType = errors.New("a menu can hold only one dish per dietary type")
	ErrForbidden            = errors.New("forbidden")
	ErrQuotaExceeded        = errors.New("you can reserve at most 2 dishes per day")
	ErrNotEligible          = errors.New("this dish is not recommended for your dietary profile")
	ErrMenuFull             = errors.New("the menu already holds one dish of every dietary type")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
)

// ValidationError 输入格式错误，在访问存储前返回
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

// StoreError 存储层失败；消息原样透传给调用方
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

// Store 包装存储错误；nil 原样返回
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
