package core

import "time"

const compactLayout = "20060102"

// ParseCompactDate parses a YYYYMMDD catalog date. The catalog encodes some
// unknown days as "99"; such dates are read as the 25th, once.
func ParseCompactDate(raw, label string) (time.Time, error) {
	d, err := time.Parse(compactLayout, raw)
	if err == nil {
		return d, nil
	}
	if len(raw) == len(compactLayout) && raw[len(raw)-2:] == "99" {
		if d, err := time.Parse(compactLayout, raw[:len(raw)-2]+"25"); err == nil {
			return d, nil
		}
	}
	return time.Time{}, &DateError{Raw: raw, Label: label}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
