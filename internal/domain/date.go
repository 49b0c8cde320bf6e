package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segyhp/renegotiation-engine/pkg/utils"
)

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: utils.DateOnly(t)}
}

func (d Date) String() string {
	return utils.FormatDate(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	t, err := utils.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
