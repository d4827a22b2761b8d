package custom

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// scanLayouts are the textual layouts accepted when a driver hands back a string.
var scanLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Datetime represents a datetime.
type Datetime time.Time

// NewDatetime returns the Datetime for t in UTC.
func NewDatetime(t time.Time) Datetime {
	return Datetime(t.UTC())
}

// Time returns the underlying time.
func (d Datetime) Time() time.Time {
	return time.Time(d)
}

// IsZero reports whether the datetime is unset.
func (d Datetime) IsZero() bool {
	return time.Time(d).IsZero()
}

// MarshalJSON implements the json.Marshaler interface.
func (d *Datetime) MarshalJSON() ([]byte, error) {
	if d == nil || time.Time(*d).IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`%q`, time.Time(*d).UTC().Format(time.RFC3339))), nil
}

func (d *Datetime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d == nil || time.Time(*d).IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(time.Time(*d).UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Datetime) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		*d = Datetime{}
		return nil
	}

	// Remove " from text if present with regex (e.g. "2020-01-01T00:00:00Z" -> 2020-01-01T00:00:00Z)
	reg := regexp.MustCompile(`"(.*)"`)
	text = reg.ReplaceAll(text, []byte("$1"))

	t, err := time.Parse(time.RFC3339, string(text))
	if err != nil {
		return err
	}
	*d = Datetime(t)
	return nil
}

func (d *Datetime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeNull:
		*d = Datetime{}
		return nil
	case bson.TypeDateTime:
		rv := bson.RawValue{Type: t, Value: data}
		*d = Datetime(rv.Time())
		return nil
	case bson.TypeString:
		rv := bson.RawValue{Type: t, Value: data}
		parsed, err := time.Parse(time.RFC3339, rv.StringValue())
		if err != nil {
			return fmt.Errorf("invalid datetime: %w", err)
		}
		*d = Datetime(parsed)
		return nil
	}
	return fmt.Errorf("invalid bson type %s for datetime", t)
}

// Scan implements the sql.Scanner interface.
func (d *Datetime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Datetime{}
		return nil
	case time.Time:
		*d = Datetime(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	}
	return fmt.Errorf("invalid scan, type %T not supported for %T", src, d)
}

func (d *Datetime) scanString(s string) error {
	for _, layout := range scanLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Datetime(t)
			return nil
		}
	}
	return fmt.Errorf("invalid datetime: %s", s)
}

// Value implements the driver.Valuer interface.
func (d Datetime) Value() (driver.Value, error) {
	if time.Time(d).IsZero() {
		return nil, nil
	}
	return time.Time(d).UTC(), nil
}

// GormDataType tells gorm which column type to use.
func (Datetime) GormDataType() string {
	return "time"
}

// String implements the fmt.Stringer interface.
func (d Datetime) String() string {
	return time.Time(d).Format(time.RFC3339)
}
