package operator

import (
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
)

// Status は操作者の状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid は既知の状態かどうかを返します。
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// ParseStatus は大文字小文字と前後空白を無視して状態を解釈します。
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Operator はシステムを操作する担当者です。
// 監査ログの actor_identity には ID が記録されます。
type Operator struct {
	ID        string
	Email     string
	Name      string
	Role      access.Role
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor は操作者を監査ログ用の Actor に変換します。
func (o *Operator) Actor(address string) access.Actor {
	return access.Actor{Identity: o.ID, Role: o.Role, Address: address}
}
