// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// listItemName is the child field name of every list column.
const listItemName = "item"

// Field is the logical type of a Go type: its Arrow data type and whether the
// Go type can represent a null. It is fixed per type, not chosen per value.
type Field struct {
	Type     arrow.DataType
	Nullable bool
}

// Arrow returns the field as a named schema field.
func (f Field) Arrow(name string) arrow.Field {
	return arrow.Field{Name: name, Type: f.Type, Nullable: f.Nullable}
}

func (f Field) String() string {
	if f.Nullable {
		return TypeName(f.Type) + "?"
	}
	return TypeName(f.Type)
}

// FieldOf returns the default logical type of T, as bound by [CodecFor].
func FieldOf[T any]() (Field, error) {
	c, err := CodecFor[T]()
	if err != nil {
		return Field{}, err
	}
	return c.Field(), nil
}

// itemField is the child field of a list whose elements have logical type elem.
func itemField(elem Field) arrow.Field {
	return arrow.Field{Name: listItemName, Type: elem.Type, Nullable: elem.Nullable}
}

// listField returns the logical type of a list of elem.
func listField(elem Field, large bool) Field {
	if large {
		return Field{Type: arrow.LargeListOfField(itemField(elem))}
	}
	return Field{Type: arrow.ListOfField(itemField(elem))}
}

// sameType reports whether a column of type actual can be read as expected.
// Lists and large lists compare element type and element nullability; the
// child field name is not significant.
func sameType(expected, actual arrow.DataType) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	if expected.ID() != actual.ID() {
		return false
	}
	switch e := expected.(type) {
	case *arrow.ListType:
		return sameElem(e.ElemField(), actual.(*arrow.ListType).ElemField())
	case *arrow.LargeListType:
		return sameElem(e.ElemField(), actual.(*arrow.LargeListType).ElemField())
	case *arrow.TimestampType:
		a := actual.(*arrow.TimestampType)
		return e.Unit == a.Unit && e.TimeZone == a.TimeZone
	}
	return arrow.TypeEqual(expected, actual)
}

func sameElem(expected, actual arrow.Field) bool {
	return expected.Nullable == actual.Nullable && sameType(expected.Type, actual.Type)
}

// TypeName returns a short human-readable name for an Arrow data type.
func TypeName(dt arrow.DataType) string {
	if dt == nil {
		return "<nil>"
	}
	switch dt.ID() {
	case arrow.STRING:
		return "string"
	case arrow.LARGE_STRING:
		return "large_string"
	case arrow.BINARY:
		return "binary"
	case arrow.LARGE_BINARY:
		return "large_binary"
	case arrow.BOOL:
		return "bool"
	case arrow.LIST:
		return "list<" + elemName(dt.(*arrow.ListType).ElemField()) + ">"
	case arrow.LARGE_LIST:
		return "large_list<" + elemName(dt.(*arrow.LargeListType).ElemField()) + ">"
	case arrow.TIMESTAMP:
		ts := dt.(*arrow.TimestampType)
		if ts.TimeZone != "" {
			return "timestamp[" + ts.Unit.String() + ", " + ts.TimeZone + "]"
		}
		return "timestamp[" + ts.Unit.String() + "]"
	default:
		return dt.String()
	}
}

func elemName(f arrow.Field) string {
	if f.Nullable {
		return TypeName(f.Type) + "?"
	}
	return TypeName(f.Type)
}
