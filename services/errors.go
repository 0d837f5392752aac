package services

import (
	"errors"
)

// ErrorKind classifies registration failures for the HTTP layer.
type ErrorKind int

const (
	KindMethodNotAllowed ErrorKind = iota + 1
	KindMissingIdentifier
	KindDuplicateIdentifier
	KindIdentityCreationFailed
	KindProfileInsertFailed
	KindLookupFailed
	KindConfigurationMissing
	KindValidationFailed
	KindTokenRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindMethodNotAllowed:
		return "MethodNotAllowed"
	case KindMissingIdentifier:
		return "MissingIdentifier"
	case KindDuplicateIdentifier:
		return "DuplicateIdentifier"
	case KindIdentityCreationFailed:
		return "IdentityCreationFailed"
	case KindProfileInsertFailed:
		return "ProfileInsertFailed"
	case KindLookupFailed:
		return "LookupFailed"
	case KindConfigurationMissing:
		return "ConfigurationMissing"
	case KindValidationFailed:
		return "ValidationFailed"
	case KindTokenRejected:
		return "TokenRejected"
	}
	return "Unknown"
}

// Messages returned to the member.
const (
	MessageRegistered        = "註冊成功"
	MessageMissingLineID     = "LINE ID 是必須的"
	MessageAlreadyRegistered = "此 LINE 帳號已經註冊"
	MessageIdentityNotIssued = "用戶創建失敗"
	MessageInvalidBirthday   = "生日格式錯誤"
	MessageRegisterFailed    = "註冊失敗"
	MessageMethodNotAllowed  = "Method not allowed"
	MessageConfigMissing     = "伺服器設定錯誤"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrIdentityNotFound = errors.New("identity not found")
)

// RegistrationError carries a Kind, the member-facing message and the cause.
type RegistrationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RegistrationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return MessageRegisterFailed
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// newFailure surfaces the cause's own message, as backend failures do.
func newFailure(kind ErrorKind, err error) *RegistrationError {
	msg := MessageRegisterFailed
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &RegistrationError{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or 0 when err is not a RegistrationError.
func KindOf(err error) ErrorKind {
	var rerr *RegistrationError
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return 0
}
