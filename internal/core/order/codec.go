package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/table"
)

// On-disk date and time layouts.
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

const (
	urgentYes = "Sim"
	urgentNo  = "Não"
)

// FromRow decodes one table row. Dates are interpreted in loc.
func FromRow(r table.Row, loc *time.Location) (*Order, error) {
	id, ok := table.ParseID(r[ColID])
	if !ok {
		return nil, failure.Invalid(ColID, "invalid identifier %q", r[ColID])
	}

	o := &Order{
		ID:          id,
		Description: r[ColDescription],
		Requester:   r[ColRequester],
		Location:    r[ColLocation],
		Executor1:   strings.TrimSpace(r[ColExecutor1]),
		Executor2:   strings.TrimSpace(r[ColExecutor2]),
		Urgent:      parseUrgent(r[ColUrgent]),
	}

	category, ok := ParseCategory(r[ColCategory])
	if !ok {
		// Unknown categories from other copies of the file are kept verbatim.
		category = strings.TrimSpace(r[ColCategory])
	}
	o.Category = category

	if raw := strings.TrimSpace(r[ColStatus]); raw == "" {
		o.Status = StatusPending
	} else if s, ok := ParseStatus(raw); ok {
		o.Status = s
	} else {
		return nil, failure.Invalid(ColStatus, "order %d has unknown status %q", id, raw)
	}

	opened, err := parseDateTime(r[ColOpenDate], r[ColOpenTime], loc)
	if err != nil {
		return nil, failure.Invalid(ColOpenDate, "order %d: %v", id, err)
	}
	o.OpenedAt = opened

	done, err := parseDateTime(r[ColDoneDate], r[ColDoneTime], loc)
	if err != nil {
		return nil, failure.Invalid(ColDoneDate, "order %d: %v", id, err)
	}
	o.CompletedAt = done

	return o, nil
}

// Row encodes the order as a table row.
func (o *Order) Row(loc *time.Location) table.Row {
	r := table.Row{
		ColID:          strconv.Itoa(o.ID),
		ColDescription: o.Description,
		ColRequester:   o.Requester,
		ColLocation:    o.Location,
		ColCategory:    o.Category,
		ColStatus:      o.Status.Label(),
		ColExecutor1:   o.Executor1,
		ColExecutor2:   o.Executor2,
		ColUrgent:      urgentNo,
	}
	if o.Urgent {
		r[ColUrgent] = urgentYes
	}
	r[ColOpenDate], r[ColOpenTime] = formatDateTime(o.OpenedAt, loc)
	r[ColDoneDate], r[ColDoneTime] = formatDateTime(o.CompletedAt, loc)
	return r
}

// Decode decodes every row of t.
func Decode(t *table.Table, loc *time.Location) ([]*Order, error) {
	orders := make([]*Order, 0, t.Len())
	for _, r := range t.Rows {
		o, err := FromRow(r, loc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func parseUrgent(v string) bool {
	switch table.Fold(strings.TrimSpace(v)) {
	case "sim", "s", "yes", "y", "true", "1":
		return true
	}
	return false
}

func parseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, nil
	}
	var (
		d   time.Time
		err error
	)
	for _, layout := range []string{DateLayout, "2006-01-02"} {
		d, err = time.ParseInLocation(layout, date, loc)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, err
	}
	if clock == "" {
		return d, nil
	}
	c, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

func formatDateTime(t time.Time, loc *time.Location) (string, string) {
	if t.IsZero() {
		return "", ""
	}
	t = t.In(loc)
	return t.Format(DateLayout), t.Format(TimeLayout)
}
