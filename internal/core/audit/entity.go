package audit

import "time"

// Action は監査対象の操作種別です。
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// IsValid は定義済みの操作種別かを判定します。
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// Snapshot はフィールド名から正規化済み文字列値への写像です。
// 値が無いフィールドはキーごと省略されます。
type Snapshot map[string]string

// Clone はスナップショットの複製を返します。
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FieldChange はフィールド単位の変更です。
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Entry は 1 回の変更操作の不変な記録です。追記のみで更新・削除はされません。
type Entry struct {
	ID            string
	Timestamp     time.Time
	ActorRole     string
	ActorIdentity string
	ClientAddress string
	Action        Action
	EmployeeID    string
	Before        Snapshot
	After         Snapshot
}

// FieldChanges は UPDATE の場合のみ Before/After の差分を返します。
// 差分は保存されず、読み出しのたびに計算されます。
func (e *Entry) FieldChanges() []FieldChange {
	if e == nil || e.Action != ActionUpdate {
		return nil
	}
	return Diff(e.Before, e.After)
}
