package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MirroredRepository は追記に成功したエントリをテキストログにも書き出します。
// ログへの書き込み失敗は追記結果に影響しません。
type MirroredRepository struct {
	Repository
	logger *zap.Logger
}

// NewMirroredRepository は repo を包んだ MirroredRepository を返します。
// logger が nil の場合は repo をそのまま返します。
func NewMirroredRepository(repo Repository, logger *zap.Logger) Repository {
	if logger == nil {
		return repo
	}
	return &MirroredRepository{Repository: repo, logger: logger}
}

// Append は内部リポジトリに追記し、成功時にログへ 1 行出力します。
func (r *MirroredRepository) Append(ctx context.Context, entry *Entry) (*Entry, error) {
	stored, err := r.Repository.Append(ctx, entry)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("entry_id", stored.ID),
		zap.String("action", string(stored.Action)),
		zap.String("employee_id", stored.EmployeeID),
		zap.String("actor", stored.ActorIdentity),
		zap.String("role", stored.ActorRole),
		zap.String("ip", stored.ClientAddress),
		zap.String("action_time", stored.Timestamp.Format(time.RFC3339)),
	}
	if changes := stored.FieldChanges(); len(changes) > 0 {
		fields = append(fields, zap.Any("changes", changes))
	}
	r.logger.Info("audit", fields...)

	return stored, nil
}
