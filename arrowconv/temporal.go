// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"math"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/google/uuid"
)

var (
	// Representable range of a nanosecond timestamp.
	minTimestamp = time.Unix(0, math.MinInt64).UTC()
	maxTimestamp = time.Unix(0, math.MaxInt64).UTC()

	unixEpochDate = civil.Date{Year: 1970, Month: time.January, Day: 1}

	naiveTimestampType = &arrow.TimestampType{Unit: arrow.Nanosecond}
	uuidDataType       = &arrow.FixedSizeBinaryType{ByteWidth: 16}

	dateCodec = &primitive[civil.Date, arrow.Date32, *array.Date32, *array.Date32Builder]{
		field:  Field{Type: arrow.FixedWidthTypes.Date32},
		encode: encodeDate,
		decode: decodeDate,
	}
	timestampCodec = &primitive[civil.DateTime, arrow.Timestamp, *array.Timestamp, *array.TimestampBuilder]{
		field:  Field{Type: naiveTimestampType},
		encode: encodeDateTime,
		decode: decodeDateTime,
	}
	timestampUTCCodec = &primitive[time.Time, arrow.Timestamp, *array.Timestamp, *array.TimestampBuilder]{
		field:  Field{Type: arrow.FixedWidthTypes.Timestamp_ns},
		encode: encodeTime,
		decode: decodeTime,
	}
	uuidCodec = &primitive[uuid.UUID, []byte, *array.FixedSizeBinary, *array.FixedSizeBinaryBuilder]{
		field: Field{Type: uuidDataType},
		encode: func(u uuid.UUID) ([]byte, error) {
			return u[:], nil
		},
		decode: func(b []byte) uuid.UUID {
			var u uuid.UUID
			copy(u[:], b)
			return u
		},
	}
)

// Date returns the codec of calendar dates, stored as date32 day counts since
// 1970-01-01.
func Date() Codec[civil.Date] { return dateCodec }

// Timestamp returns the codec of wall-clock date-times without a time zone,
// stored as timestamp[ns] counts since the Unix epoch. Only date-times
// between 1677-09-21 and 2262-04-11 fit; others fail with ErrInvalidValue.
func Timestamp() Codec[civil.DateTime] { return timestampCodec }

// TimestampUTC returns the codec of instants, stored as timestamp[ns, UTC].
// Decoded values are in UTC.
func TimestampUTC() Codec[time.Time] { return timestampUTCCodec }

// UUID returns the codec of UUIDs, stored as fixed_size_binary[16].
func UUID() Codec[uuid.UUID] { return uuidCodec }

func encodeDate(d civil.Date) (arrow.Date32, error) {
	if !d.IsValid() {
		return 0, invalidValue("invalid date %s", d)
	}
	days := d.DaysSince(unixEpochDate)
	if days < math.MinInt32 || days > math.MaxInt32 {
		return 0, invalidValue("date %s is outside the date32 range", d)
	}
	return arrow.Date32FromTime(d.In(time.UTC)), nil
}

func decodeDate(v arrow.Date32) civil.Date {
	return civil.DateOf(v.ToTime())
}

func encodeDateTime(dt civil.DateTime) (arrow.Timestamp, error) {
	if !dt.IsValid() {
		return 0, invalidValue("invalid date-time %s", dt)
	}
	return encodeTime(dt.In(time.UTC))
}

func decodeDateTime(v arrow.Timestamp) civil.DateTime {
	return civil.DateTimeOf(v.ToTime(arrow.Nanosecond))
}

func encodeTime(t time.Time) (arrow.Timestamp, error) {
	if t.Before(minTimestamp) || t.After(maxTimestamp) {
		return 0, invalidValue("time %s is outside the nanosecond timestamp range", t.UTC().Format(time.RFC3339Nano))
	}
	return arrow.Timestamp(t.UnixNano()), nil
}

func decodeTime(v arrow.Timestamp) time.Time {
	return v.ToTime(arrow.Nanosecond)
}
