package model

import (
	"fmt"
	"strings"
	"time"
)

type BookStatus string

const (
	BookStatusIssued   BookStatus = "issued"
	BookStatusReturned BookStatus = "returned"
)

type Transaction struct {
	ID           int64      `json:"id" db:"id"`
	MemberID     int64      `json:"memberId" db:"member_id"`
	BookID       int64      `json:"bookId" db:"book_id"`
	BookStatus   BookStatus `json:"bookStatus" db:"book_status"`
	DateOfIssue  Date       `json:"dateOfIssue" db:"date_of_issue"`
	DueDate      Date       `json:"dueDate" db:"due_date"`
	DateOfReturn *Date      `json:"dateOfReturn,omitempty" db:"date_of_return"`
}

type IssueRequest struct {
	// MemberID defaults to the caller when omitted.
	MemberID int64 `json:"memberId" validate:"omitempty,gt=0"`
	BookID   int64 `json:"bookId" validate:"required,gt=0"`
	DueDate  *Date `json:"dueDate" validate:"required"`
}

type TransactionUpdateRequest struct {
	DueDate *Date `json:"dueDate" validate:"required"`
}

type TransactionPageRequest struct {
	PageRequest
	// MemberID restricts the page to one member when non-zero.
	MemberID int64
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = date
	return
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("model.Date: cannot scan %T", src)
	}
}

func (d *Date) parse(s string) error {
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
