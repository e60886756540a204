package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxNameLength は氏名の最大文字数です。
	MaxNameLength = 100
	// MaxEmailLength はメールアドレスの最大文字数です。
	MaxEmailLength = 255
	// MaxBaseSalary は基本給の上限です。
	MaxBaseSalary = 1_000_000
	// AdmissionDateLayout は入社日の入力形式です。
	AdmissionDateLayout = "2006-01-02"
)

const (
	MsgNameRequired       = "name is required"
	MsgNameTooLong        = "name must have at most 100 characters"
	MsgEmailRequired      = "email is required"
	MsgEmailInvalid       = "email is invalid"
	MsgEmailTooLong       = "email must have at most 255 characters"
	MsgDepartmentRequired = "department is required"
	MsgSalaryInvalid      = "base salary must be a non-negative number"
	MsgSalaryTooHigh      = "base salary must not exceed 1000000"
	MsgHierarchyInvalid   = "hierarchy level is invalid"
	MsgAdmissionInvalid   = "admission date must use YYYY-MM-DD"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// HierarchyLevels は許可される職位レベルです。gestor が管理職を表します。
var HierarchyLevels = []string{"junior", "pleno", "senior", "gestor"}

// Rules は入力フィールドの検証ルールセットです。
// ルール関数はエラーメッセージを返し、空文字列は妥当であることを示します。
type Rules struct {
	NameMinLength int
	Extended      bool
}

// Minimal は最小構成のルールセットです。
func Minimal() Rules {
	return Rules{NameMinLength: 3}
}

// Extended は職務情報まで検証する拡張ルールセットです。
func Extended() Rules {
	return Rules{NameMinLength: 2, Extended: true}
}

// Name は氏名を検証します。
func (r Rules) Name(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return MsgNameRequired
	}
	length := utf8.RuneCountInString(trimmed)
	if length < r.NameMinLength {
		return NameTooShort(r.NameMinLength)
	}
	if r.Extended && length > MaxNameLength {
		return MsgNameTooLong
	}
	return ""
}

// Email はメールアドレスを検証します。
func (r Rules) Email(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(trimmed) {
		return MsgEmailInvalid
	}
	if r.Extended && utf8.RuneCountInString(trimmed) > MaxEmailLength {
		return MsgEmailTooLong
	}
	return ""
}

// Department は部署名を検証します。
func (r Rules) Department(value string) string {
	if strings.TrimSpace(value) == "" {
		return MsgDepartmentRequired
	}
	return ""
}

// BaseSalary は基本給の入力文字列を検証します。未入力は許可します。
func (r Rules) BaseSalary(value string) string {
	if !r.Extended {
		return ""
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return MsgSalaryInvalid
	}
	return r.BaseSalaryAmount(amount)
}

// BaseSalaryAmount は数値化済みの基本給を検証します。
func (r Rules) BaseSalaryAmount(amount float64) string {
	if math.IsNaN(amount) || amount < 0 {
		return MsgSalaryInvalid
	}
	if amount > MaxBaseSalary {
		return MsgSalaryTooHigh
	}
	return ""
}

// HierarchyLevel は職位レベルを検証します。未入力は許可します。
func (r Rules) HierarchyLevel(value string) string {
	trimmed := strings.TrimSpace(value)
	if !r.Extended || trimmed == "" {
		return ""
	}
	if !IsHierarchyLevel(trimmed) {
		return MsgHierarchyInvalid
	}
	return ""
}

// AdmissionDate は入社日を検証します。未入力は許可します。
func (r Rules) AdmissionDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if !r.Extended || trimmed == "" {
		return ""
	}
	if _, err := time.Parse(AdmissionDateLayout, trimmed); err != nil {
		return MsgAdmissionInvalid
	}
	return ""
}

// NameTooShort は氏名の最小文字数違反のメッセージを返します。
func NameTooShort(min int) string {
	return fmt.Sprintf("name must have at least %d characters", min)
}

// IsHierarchyLevel は値が職位レベルの列挙に含まれるかを返します。
func IsHierarchyLevel(value string) bool {
	for _, level := range HierarchyLevels {
		if level == value {
			return true
		}
	}
	return false
}
