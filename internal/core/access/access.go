// Package access は操作者のロールと編集権限を扱います。
package access

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrPermissionDenied = errors.New("access: permission denied")
	ErrUnauthenticated  = errors.New("access: unauthenticated")
	ErrInvalidRole      = errors.New("access: invalid role")
)

// Role は操作者の権限ロールです。
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleHRAdmin    Role = "hr_admin"
	RoleBureauHead Role = "bureau_head"
)

// ParseRole は文字列をロールに変換します。大文字小文字と前後の空白は無視します。
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// IsValid は定義済みのロールかを判定します。
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleHRAdmin, RoleBureauHead:
		return true
	default:
		return false
	}
}

// CanEdit は社員データを変更できるロールかを返します。
func (r Role) CanEdit() bool {
	return r == RoleHRAdmin || r == RoleBureauHead
}

// CanManageOperators は操作者を管理できるロールかを返します。
func (r Role) CanManageOperators() bool {
	return r == RoleBureauHead
}

// Actor は操作を行った主体です。監査ログに記録されます。
type Actor struct {
	Identity string
	Role     Role
	Address  string
}

// CanEdit は編集権限を持つかを返します。
func (a Actor) CanEdit() bool {
	return a.Role.CanEdit()
}

// RequireEdit は編集権限がなければエラーを返します。
func RequireEdit(a Actor) error {
	if strings.TrimSpace(a.Identity) == "" || !a.Role.IsValid() {
		return ErrUnauthenticated
	}
	if !a.CanEdit() {
		return ErrPermissionDenied
	}
	return nil
}

// RequireManage は操作者の管理権限がなければエラーを返します。
func RequireManage(a Actor) error {
	if strings.TrimSpace(a.Identity) == "" || !a.Role.IsValid() {
		return ErrUnauthenticated
	}
	if !a.Role.CanManageOperators() {
		return ErrPermissionDenied
	}
	return nil
}

type actorKey struct{}

// WithActor は ctx に操作者を紐付けます。
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext は ctx に紐付いた操作者を返します。
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// RequireEditFromContext は ctx の操作者に編集権限があればその操作者を返します。
func RequireEditFromContext(ctx context.Context) (Actor, error) {
	a, ok := FromContext(ctx)
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	if err := RequireEdit(a); err != nil {
		return Actor{}, err
	}
	return a, nil
}
