package netezza

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
)

// ByteInt is a one byte signed integer column (BYTEINT).
type ByteInt int8

// GormDataType selects the BYTEINT column type.
func (ByteInt) GormDataType() string {
	return "byteint"
}

// Scan implements sql.Scanner.
func (b *ByteInt) Scan(src any) error {
	var n int64
	switch v := src.(type) {
	case nil:
		*b = 0
		return nil
	case int64:
		n = v
	case int32:
		n = int64(v)
	case int16:
		n = int64(v)
	case int8:
		n = int64(v)
	case int:
		n = int64(v)
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan byteint: %w", err)
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan byteint: %w", err)
		}
		n = parsed
	default:
		return fmt.Errorf("scan byteint: unsupported source type %T", src)
	}
	if n < math.MinInt8 || n > math.MaxInt8 {
		return fmt.Errorf("scan byteint: value %d out of range", n)
	}
	*b = ByteInt(n)
	return nil
}

// Value implements driver.Valuer.
func (b ByteInt) Value() (driver.Value, error) {
	return int64(b), nil
}

// Geometry is an ST_GEOMETRY column holding the spatial value in the
// binary form the server stores. The column size comes from the size tag,
// for example `gorm:"size:200"`.
type Geometry []byte

// GormDataType selects the ST_GEOMETRY column type.
func (Geometry) GormDataType() string {
	return "st_geometry"
}

// Scan implements sql.Scanner.
func (g *Geometry) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*g = nil
	case []byte:
		*g = append(Geometry(nil), v...)
	case string:
		*g = Geometry(v)
	default:
		return fmt.Errorf("scan st_geometry: unsupported source type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (g Geometry) Value() (driver.Value, error) {
	if g == nil {
		return nil, nil
	}
	return []byte(g), nil
}
