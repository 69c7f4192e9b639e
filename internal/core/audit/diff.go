package audit

import "sort"

// ExcludedFields は書き込みのたびに変化するため差分対象から外すフィールドです。
var ExcludedFields = []string{
	"id",
	"last_updated",
	"data_quality_score",
}

var excluded = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ExcludedFields))
	for _, f := range ExcludedFields {
		set[f] = struct{}{}
	}
	return set
}()

// Diff は before と after のキー和集合をフィールド名順に走査し、
// 値が異なるものだけを返します。欠損は空文字として比較します。
func Diff(before, after Snapshot) []FieldChange {
	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	fields := make([]string, 0, len(keys))
	for k := range keys {
		if _, skip := excluded[k]; skip {
			continue
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)

	changes := make([]FieldChange, 0)
	for _, f := range fields {
		b, a := before[f], after[f]
		if b == a {
			continue
		}
		changes = append(changes, FieldChange{Field: f, Before: b, After: a})
	}
	return changes
}
