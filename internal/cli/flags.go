package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/wire"
)

// Accepted layouts for date and time flags, tried in order.
var (
	dateLayouts     = []string{"2006-01-02", "02/01/2006"}
	dateTimeLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "02/01/2006 15:04"}
)

// parseID parses a positive numeric record identifier.
func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive number", what, arg)
	}
	return id, nil
}

// optionalString returns the flag value only when the user set it, so that an
// explicit empty value can clear a field.
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// parseDate parses a date flag in the workspace timezone.
func parseDate(v string) (time.Time, error) {
	return parseInLayouts(v, dateLayouts)
}

// parseDateTime parses a date and time flag in the workspace timezone.
func parseDateTime(v string) (time.Time, error) {
	return parseInLayouts(v, dateTimeLayouts)
}

func parseInLayouts(v string, layouts []string) (time.Time, error) {
	loc, err := wire.Config().Location()
	if err != nil {
		return time.Time{}, err
	}
	v = strings.TrimSpace(v)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected %s)", v, strings.Join(layouts, " or "))
}
