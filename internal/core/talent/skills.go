package talent

import (
	"fmt"
	"sort"
	"strings"
)

// SkillSet は正規化済み (trim + 小文字化) のスキルタグ集合です。
type SkillSet map[string]struct{}

// ParseSkills はカンマ区切りの自由記述をスキル集合に変換します。
// 空トークンは捨てられます。
func ParseSkills(csv string) SkillSet {
	set := make(SkillSet)
	for _, token := range strings.Split(csv, ",") {
		tag := normalizeSkill(token)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

func normalizeSkill(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Len は集合の要素数を返します。
func (s SkillSet) Len() int {
	return len(s)
}

// Contains はタグが含まれるかを大文字小文字を区別せずに判定します。
func (s SkillSet) Contains(tag string) bool {
	_, ok := s[normalizeSkill(tag)]
	return ok
}

// CountIn は s の要素のうち other にも含まれる数を返します。
func (s SkillSet) CountIn(other SkillSet) int {
	n := 0
	for tag := range s {
		if _, ok := other[tag]; ok {
			n++
		}
	}
	return n
}

// Sorted は要素を辞書順で返します。
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// String はカンマ区切りの正規形を返します。
func (s SkillSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// Requirements は昇進プールで求められるスキル定義です。
type Requirements struct {
	Technical SkillSet
	Soft      SkillSet
}

// NewRequirements は設定値から Requirements を構築します。
// 空のタグ、カンマを含むタグ、正規化後に重複するタグは設定ミスとして拒否します。
func NewRequirements(technical, soft []string) (Requirements, error) {
	tech, err := buildRequiredSet("technical", technical)
	if err != nil {
		return Requirements{}, err
	}
	softSet, err := buildRequiredSet("soft", soft)
	if err != nil {
		return Requirements{}, err
	}
	return Requirements{Technical: tech, Soft: softSet}, nil
}

// MustRequirements は NewRequirements の panic 版です。テストや固定値の定義に使います。
func MustRequirements(technical, soft []string) Requirements {
	req, err := NewRequirements(technical, soft)
	if err != nil {
		panic(err)
	}
	return req
}

// Total は必要スキル数の合計を返します。
func (r Requirements) Total() int {
	return r.Technical.Len() + r.Soft.Len()
}

func buildRequiredSet(kind string, tags []string) (SkillSet, error) {
	set := make(SkillSet, len(tags))
	for i, raw := range tags {
		tag := normalizeSkill(raw)
		switch {
		case tag == "":
			return nil, fmt.Errorf("%s[%d] is empty: %w", kind, i, ErrInvalidRequirements)
		case strings.Contains(tag, ","):
			return nil, fmt.Errorf("%s[%d] %q contains a comma: %w", kind, i, raw, ErrInvalidRequirements)
		}
		if _, dup := set[tag]; dup {
			return nil, fmt.Errorf("%s[%d] %q is duplicated: %w", kind, i, raw, ErrInvalidRequirements)
		}
		set[tag] = struct{}{}
	}
	return set, nil
}
