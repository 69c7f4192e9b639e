package operator

import "errors"

var (
	// ErrOperatorNotFound は操作者が存在しない場合に返却されます。
	ErrOperatorNotFound = errors.New("operator: not found")
	// ErrEmailAlreadyExists はメールアドレス重複時に返却されます。
	ErrEmailAlreadyExists = errors.New("operator: email already exists")
	// ErrOperatorInactive は無効化された操作者で操作しようとした場合に返却されます。
	ErrOperatorInactive = errors.New("operator: inactive")
	// ErrSelfLockout は自分自身の削除、無効化、権限変更を試みた場合に返却されます。
	ErrSelfLockout      = errors.New("operator: cannot remove own access")
	ErrInvalidEmail     = errors.New("operator: invalid email")
	ErrInvalidName      = errors.New("operator: invalid name")
	ErrInvalidStatus    = errors.New("operator: invalid status")
	ErrInvalidID        = errors.New("operator: invalid id")
	ErrInvalidPageSize  = errors.New("operator: invalid page size")
	ErrInvalidPageToken = errors.New("operator: invalid page token")
)
