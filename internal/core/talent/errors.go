package talent

import "errors"

// ErrInvalidRequirements は必要スキル定義が不正な場合に返却されます。
var ErrInvalidRequirements = errors.New("talent: invalid requirements")
