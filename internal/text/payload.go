package text

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field labels partners use in an open-case message.
const (
	LabelCustomerName = "ชื่อลูกค้า"
	LabelSalary       = "เงินเดือน"
	LabelIncome       = "รายได้"
	LabelCreditLimit  = "วงเงิน"
	LabelLoanAmount   = "ยอดกู้"
	LabelProperty     = "ทรัพย์"
	LabelProject      = "โครงการ"
)

// Chat-facing validation messages.
const (
	MsgMissingFields = "❌ ข้อมูลไม่ครบ\nตัวอย่าง: #เปิดเคส ชื่อลูกค้า=นายสมชาย | เงินเดือน=85000 | วงเงิน=5000000"
	MsgBadIncome     = "❌ กรุณากรอกเงินเดือนเป็นตัวเลข เช่น 85000"
	MsgBadLoanAmount = "❌ กรุณากรอกวงเงินเป็นตัวเลข เช่น 5000000"
)

// labelRegex lets partners omit the pipe between consecutive label=value fragments.
var labelRegex = regexp.MustCompile(`(เงินเดือน|รายได้|วงเงิน|ยอดกู้|ทรัพย์|โครงการ)\s*=`)

type field int

const (
	fieldCustomerName field = iota
	fieldIncome
	fieldLoanAmount
	fieldPropertyType
	fieldProjectName
)

// Keys may carry extra words ("ชื่อลูกค้าเต็ม"), so labels are matched by containment.
var fieldRules = Rules[field]{
	{Trigger: LabelCustomerName, Result: fieldCustomerName},
	{Trigger: LabelSalary, Result: fieldIncome},
	{Trigger: LabelIncome, Result: fieldIncome},
	{Trigger: LabelCreditLimit, Result: fieldLoanAmount},
	{Trigger: LabelLoanAmount, Result: fieldLoanAmount},
	{Trigger: LabelProperty, Result: fieldPropertyType},
	{Trigger: LabelProject, Result: fieldProjectName},
}

// NewCaseFields holds the values extracted from an open-case message.
type NewCaseFields struct {
	CustomerName  string
	MonthlyIncome decimal.NullDecimal
	LoanAmount    decimal.NullDecimal
	PropertyType  string
	ProjectName   string
}

// ValidationError reports a malformed payload. Message is safe to send back to the partner.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid new case payload: " + e.Message
}

// ParseNewCasePayload parses the text that follows an open-case command, for example
// "ชื่อลูกค้า=นายสมชาย | เงินเดือน=85,000 วงเงิน=5000000".
// A customer name is required; income and loan amount, when given, must be numbers.
func ParseNewCasePayload(raw string) (NewCaseFields, error) {
	cleaned := labelRegex.ReplaceAllString(raw, "|$1=")
	cleaned = strings.TrimSpace(cleaned)
	if strings.HasPrefix(cleaned, "|") {
		cleaned = strings.TrimSpace(cleaned[1:])
	}

	var (
		fields             NewCaseFields
		sawIncome, sawLoan bool
	)

	for _, part := range strings.Split(cleaned, "|") {
		key, val, _ := strings.Cut(part, "=")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if key == "" || val == "" {
			continue
		}

		f, ok := fieldRules.Contains(key)
		if !ok {
			continue
		}
		switch f {
		case fieldCustomerName:
			fields.CustomerName = val
		case fieldIncome:
			sawIncome = true
			fields.MonthlyIncome = ParseAmount(val)
		case fieldLoanAmount:
			sawLoan = true
			fields.LoanAmount = ParseAmount(val)
		case fieldPropertyType:
			fields.PropertyType = val
		case fieldProjectName:
			fields.ProjectName = val
		}
	}

	switch {
	case fields.CustomerName == "":
		return NewCaseFields{}, &ValidationError{Message: MsgMissingFields}
	case sawIncome && !fields.MonthlyIncome.Valid:
		return NewCaseFields{}, &ValidationError{Message: MsgBadIncome}
	case sawLoan && !fields.LoanAmount.Valid:
		return NewCaseFields{}, &ValidationError{Message: MsgBadLoanAmount}
	}

	return fields, nil
}

// ParseAmount reads a number written with optional thousands separators ("5,000,000",
// "85 000"). Anything that is not a finite number yields an invalid value.
func ParseAmount(s string) decimal.NullDecimal {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(s)
	if cleaned == "" {
		return decimal.NullDecimal{}
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		d = decimal.NewFromFloat(f)
	}
	return decimal.NewNullDecimal(d)
}
