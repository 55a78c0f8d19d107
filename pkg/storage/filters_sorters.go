package storage

import "fmt"

// Field is a datafield of an environment run record that queries can filter
// and sort by.
type Field int

const (
	FieldUndefined Field = iota
	FieldID
	FieldEnvironmentName
	FieldResult
	FieldStartTime
	FieldDuration
)

func (f Field) String() string {
	switch f {
	case FieldID:
		return "Id"
	case FieldEnvironmentName:
		return "EnvironmentName"
	case FieldResult:
		return "Result"
	case FieldStartTime:
		return "StartTime"
	case FieldDuration:
		return "Duration"
	default:
		return "Undefined"
	}
}

// Op is a filter operator.
type Op int

const (
	OpEQ Op = iota
	OpGT
	OpLT
	OpIN
)

func (o Op) String() string {
	switch o {
	case OpEQ:
		return "="
	case OpGT:
		return ">"
	case OpLT:
		return "<"
	case OpIN:
		return "IN"
	default:
		return "UNDEFINED"
	}
}

// Filter restricts a query result to records whose Field matches Value
// according to Operator.
type Filter struct {
	Field    Field
	Operator Op
	Value    any
}

// Order is a sort direction.
type Order int

const (
	OrderUndefined Order = iota
	OrderAsc
	OrderDesc
)

func (o Order) String() string {
	switch o {
	case OrderAsc:
		return "asc"
	case OrderDesc:
		return "desc"
	default:
		return "undefined"
	}
}

// OrderFromStr converts a string to an Order.
func OrderFromStr(s string) (Order, error) {
	switch s {
	case "asc":
		return OrderAsc, nil
	case "desc":
		return OrderDesc, nil
	default:
		return OrderUndefined, fmt.Errorf("%q is not a valid sort order", s)
	}
}

// Sorter describes the sort order of a query result.
type Sorter struct {
	Field Field
	Order Order
}
