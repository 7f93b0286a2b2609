package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Kind is the typed-value tag an attribute is stored with.
type Kind string

const (
	KindString Kind = "S"
	KindNumber Kind = "N"
)

// Schema describes one resource table: its key and the attributes callers may write.
type Schema struct {
	Name         string
	Table        string
	PartitionKey string
	SortKey      string // empty for single-key tables
	Fields       map[string]Kind
}

// KeyFields lists the key attribute names, partition key first.
func (s Schema) KeyFields() []string {
	if s.SortKey == "" {
		return []string{s.PartitionKey}
	}
	return []string{s.PartitionKey, s.SortKey}
}

// IsKey reports whether field is part of the primary key.
func (s Schema) IsKey(field string) bool {
	return field == s.PartitionKey || (s.SortKey != "" && field == s.SortKey)
}

// Key picks the key attributes out of vars (typically route variables).
func (s Schema) Key(vars map[string]string) (map[string]string, error) {
	key := make(map[string]string, 2)
	for _, f := range s.KeyFields() {
		v := vars[f]
		if v == "" {
			return nil, fmt.Errorf("missing key attribute %q", f)
		}
		key[f] = v
	}
	return key, nil
}

func NewStaffSchema(table string) Schema {
	return Schema{
		Name:         "Staff",
		Table:        table,
		PartitionKey: "staffID",
		Fields: map[string]Kind{
			"staffID":        KindString,
			"fullName":       KindString,
			"employmentType": KindString,
			"jobTitle":       KindString,
			"hourlyRate":     KindNumber,
		},
	}
}

// NewShiftSchema keys shifts by (staffID, startDate): a staff member has at
// most one shift starting on a given date.
func NewShiftSchema(table string) Schema {
	return Schema{
		Name:         "Shift",
		Table:        table,
		PartitionKey: "staffID",
		SortKey:      "startDate",
		Fields: map[string]Kind{
			"staffID":       KindString,
			"startDate":     KindString,
			"endDate":       KindString,
			"house":         KindString,
			"shift":         KindString,
			"shiftStart":    KindString,
			"shiftEnd":      KindString,
			"overtime":      KindNumber,
			"totalHours":    KindNumber,
			"totalWage":     KindNumber,
			"absence":       KindString,
			"absenceStatus": KindString,
		},
	}
}

func NewExpenseSchema(table string) Schema {
	return Schema{
		Name:         "Expense",
		Table:        table,
		PartitionKey: "expenseID",
		SortKey:      "date",
		Fields: map[string]Kind{
			"expenseID":              KindString,
			"date":                   KindString,
			"youngPersonWeeklyMoney": KindNumber,
			"maintenance":            KindNumber,
			"IT":                     KindNumber,
			"misc":                   KindNumber,
			"pettyCash":              KindNumber,
			"general":                KindNumber,
		},
	}
}

// Staff is a member of the care staff.
type Staff struct {
	StaffID        string   `json:"staffID" dynamodbav:"staffID" validate:"required"`
	FullName       *string  `json:"fullName" dynamodbav:"fullName" validate:"required"`
	EmploymentType *string  `json:"employmentType" dynamodbav:"employmentType" validate:"required"`
	JobTitle       *string  `json:"jobTitle" dynamodbav:"jobTitle" validate:"required"`
	HourlyRate     *Decimal `json:"hourlyRate" dynamodbav:"hourlyRate" validate:"required"`
}

// Shift is one worked (or absent) shift for a staff member.
type Shift struct {
	StaffID       string   `json:"staffID" dynamodbav:"staffID" validate:"required"`
	StartDate     string   `json:"startDate" dynamodbav:"startDate" validate:"required"`
	EndDate       *string  `json:"endDate" dynamodbav:"endDate" validate:"required"`
	House         *string  `json:"house" dynamodbav:"house" validate:"required"`
	Shift         *string  `json:"shift" dynamodbav:"shift" validate:"required"`
	ShiftStart    *string  `json:"shiftStart" dynamodbav:"shiftStart" validate:"required"`
	ShiftEnd      *string  `json:"shiftEnd" dynamodbav:"shiftEnd" validate:"required"`
	Overtime      *Decimal `json:"overtime" dynamodbav:"overtime" validate:"required"`
	TotalHours    *Decimal `json:"totalHours" dynamodbav:"totalHours" validate:"required"`
	TotalWage     *Decimal `json:"totalWage" dynamodbav:"totalWage" validate:"required"`
	Absence       *string  `json:"absence" dynamodbav:"absence" validate:"required"`
	AbsenceStatus *string  `json:"absenceStatus" dynamodbav:"absenceStatus" validate:"required"`
}

// Expense is the spend of one house on one date, split by category.
type Expense struct {
	ExpenseID              string   `json:"expenseID" dynamodbav:"expenseID" validate:"required"`
	Date                   string   `json:"date" dynamodbav:"date" validate:"required"`
	YoungPersonWeeklyMoney *Decimal `json:"youngPersonWeeklyMoney" dynamodbav:"youngPersonWeeklyMoney" validate:"required"`
	Maintenance            *Decimal `json:"maintenance" dynamodbav:"maintenance" validate:"required"`
	IT                     *Decimal `json:"IT" dynamodbav:"IT" validate:"required"`
	Misc                   *Decimal `json:"misc" dynamodbav:"misc" validate:"required"`
	PettyCash              *Decimal `json:"pettyCash" dynamodbav:"pettyCash" validate:"required"`
	General                *Decimal `json:"general" dynamodbav:"general" validate:"required"`
}

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const TokenTypeBearer = "bearer"

// Decimal is a float that is always stored with a decimal point, so a stored
// 15.0 reads back as a float and not as the integer 15.
type Decimal float64

// DecimalOf is a convenience for building records.
func DecimalOf(f float64) *Decimal {
	d := Decimal(f)
	return &d
}

// String renders d in plain notation with at least one fractional digit.
func (d Decimal) String() string {
	s := strconv.FormatFloat(float64(d), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (d Decimal) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: d.String()}, nil
}

// UnmarshalJSON accepts a JSON number or a string holding one.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	text := strings.TrimSpace(string(b))
	if text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		text = strings.TrimSpace(s)
	}

	f, err := ParseNumber(text)
	if err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(f)
	return nil
}

// ErrNotNumber is returned for text an N attribute cannot hold.
var ErrNotNumber = errors.New("not a number")

// N attributes hold magnitudes from 1e-130 up to, but excluding, 1e126.
const (
	maxMagnitude = 1e126
	minMagnitude = 1e-130
)

// ParseNumber accepts plain decimal and exponent notation only. ParseFloat
// alone would also let through hex floats, "NaN" and "Inf".
func ParseNumber(text string) (float64, error) {
	if text == "" || strings.IndexFunc(text, notNumeric) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, text)
	}
	if abs := math.Abs(f); abs >= maxMagnitude || (abs != 0 && abs < minMagnitude) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrNotNumber, text)
	}
	return f, nil
}

func notNumeric(r rune) bool {
	return !(r >= '0' && r <= '9') && !strings.ContainsRune("+-.eE", r)
}
