package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"farmledger/internal/core"
	"farmledger/internal/report"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// parseSelection reads the period selection from query parameters. Defaults
// mirror the entry screens: current month in MONTH mode, current week
// preselected for WEEK mode.
func parseSelection(query url.Values) report.Selection {
	today := core.Today()
	sel := report.Selection{
		Mode:        report.Month,
		Year:        today.Year(),
		Month:       int(today.Month()) - 1,
		WeekOfMonth: report.CurrentWeekOfMonth(today),
	}

	if v := strings.TrimSpace(query.Get("mode")); v != "" {
		sel.Mode = report.Mode(strings.ToUpper(v))
	}
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			sel.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			sel.Month = m
		}
	}
	if v := strings.TrimSpace(query.Get("week")); v != "" {
		if wk, err := strconv.Atoi(v); err == nil {
			sel.WeekOfMonth = wk
		}
	}
	sel.CustomStart = strings.TrimSpace(query.Get("from"))
	sel.CustomEnd = strings.TrimSpace(query.Get("to"))

	return sel
}

// parseEstateIDs reads the estate filter: repeated "estate" parameters or
// one comma-separated value. Empty means all estates.
func parseEstateIDs(query url.Values) []string {
	var ids []string
	for _, raw := range query["estate"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseWireDate parses a YYYY-MM-DD wire date, defaulting to today when
// empty so quick entries date themselves.
func parseWireDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Today(), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, err
	}
	return d, nil
}
