package seller

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/department"
	"github.com/ogurasousui/codex-grpc-sales-admin/internal/core/validation"
)

// DateLayout は生年月日の入力書式です。
const DateLayout = "2006-01-02"

const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldSalary     = "salary"
	FieldBirthDate  = "birthDate"
	FieldDepartment = "department"
)

// Form は販売員フォームから受け取る生の入力値です。
// Department は一覧から選択された部署で、未選択なら nil です。
type Form struct {
	ID         string
	Name       string
	Email      string
	Salary     string
	BirthDate  string
	Department *department.Department
}

type formRules struct {
	Name       string                 `field:"name" validate:"required"`
	Email      string                 `field:"email" validate:"required"`
	Salary     string                 `field:"salary" validate:"required"`
	BirthDate  string                 `field:"birthDate" validate:"required"`
	Department *department.Department `field:"department" validate:"required"`
}

// Validate はフォームの入力値から Seller を組み立てます。
// 違反はすべてのフィールドについて 1 回で集約され、1 件でもあれば Seller は返却されません。
// 数値と日付の解釈は値が空でない場合のみ行います。
func Validate(form Form) (*Seller, error) {
	rules := formRules{
		Name:       strings.TrimSpace(form.Name),
		Email:      strings.TrimSpace(form.Email),
		Salary:     strings.TrimSpace(form.Salary),
		BirthDate:  strings.TrimSpace(form.BirthDate),
		Department: form.Department,
	}

	verr := validation.NewError()
	if err := validation.CheckStruct(verr, rules); err != nil {
		return nil, err
	}

	s := &Seller{
		ID:         department.ParseID(form.ID),
		Name:       rules.Name,
		Email:      rules.Email,
		Department: rules.Department,
	}

	if rules.Salary != "" {
		salary, err := strconv.ParseFloat(rules.Salary, 64)
		if err != nil || math.IsNaN(salary) || math.IsInf(salary, 0) {
			verr.Add(FieldSalary, validation.MessageInvalidNumber)
		} else {
			s.BaseSalary = salary
		}
	}

	if rules.BirthDate != "" {
		birthDate, err := time.Parse(DateLayout, rules.BirthDate)
		if err != nil {
			verr.Add(FieldBirthDate, validation.MessageInvalidDate)
		} else {
			s.BirthDate = birthDate
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return s, nil
}

// NormalizeDate は t の暦日を保ったまま UTC の 0 時に丸めます。
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
