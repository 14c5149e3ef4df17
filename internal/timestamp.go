package internal

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// DisplayLayout is the day-first local format shown next to records.
const DisplayLayout = "02/01/2006 15:04:05"

type Timestamp time.Time

func (t Timestamp) Value() (driver.Value, error) {
	return time.Time(t).UTC().Format(time.RFC3339Nano), nil
}

func (t *Timestamp) Scan(value any) error {
	if value == nil {
		*t = Timestamp(time.Time{})
		return nil
	}

	if str, ok := value.(string); ok {
		parsed, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			parsed, err = time.Parse("2006-01-02 15:04:05", str)
			if err != nil {
				return err
			}
		}
		*t = Timestamp(parsed)
		return nil
	}

	if parsed, ok := value.(time.Time); ok {
		*t = Timestamp(parsed)
		return nil
	}

	return fmt.Errorf("cannot scan type %T into Timestamp", value)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var parsed time.Time
	if err := json.Unmarshal(b, &parsed); err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

func (t Timestamp) String() string {
	return time.Time(t).Format(time.RFC3339)
}

// Display renders the timestamp in the server's local zone.
func (t Timestamp) Display() string {
	if time.Time(t).IsZero() {
		return ""
	}
	return time.Time(t).Local().Format(DisplayLayout)
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
