package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"FxHedger/internal/model"
	"FxHedger/internal/session"
)

// inputError marks malformed user input, detected before any data is fetched.
type inputError struct {
	field string
	value string
	msg   string
}

func (e *inputError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.field, e.value, e.msg)
}

// rawInputs holds the values as typed by the user.
type rawInputs struct {
	Exposure  string
	Commodity string
	Forex     string
	Start     string
	End       string
}

type prompt struct {
	label  string
	target *string
}

// fillMissing asks for every empty field on in, writing prompts to out.
func (r *rawInputs) fillMissing(in io.Reader, out io.Writer) error {
	prompts := []prompt{
		{"Enter your commodity exposure (in currency units): ", &r.Exposure},
		{"Enter the commodity ticker (e.g., 'CL=F' for crude oil): ", &r.Commodity},
		{"Enter the forex ticker (e.g., 'EURUSD=X'): ", &r.Forex},
		{"Enter the start date for historical data (YYYY-MM-DD): ", &r.Start},
		{"Enter the end date for historical data (YYYY-MM-DD): ", &r.End},
	}
	reader := bufio.NewReader(in)
	for _, p := range prompts {
		if strings.TrimSpace(*p.target) != "" {
			continue
		}
		fmt.Fprint(out, p.label)
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return fmt.Errorf("read input: %w", err)
		}
		*p.target = strings.TrimSpace(line)
	}
	return nil
}

// toRequest parses the raw values into a session request.
func (r rawInputs) toRequest() (session.Request, error) {
	exposure, err := strconv.ParseFloat(strings.TrimSpace(r.Exposure), 64)
	if err != nil || math.IsNaN(exposure) || math.IsInf(exposure, 0) {
		return session.Request{}, &inputError{field: "exposure", value: r.Exposure, msg: "must be a finite number"}
	}
	start, err := parseDate("start date", r.Start)
	if err != nil {
		return session.Request{}, err
	}
	end, err := parseDate("end date", r.End)
	if err != nil {
		return session.Request{}, err
	}
	return session.Request{
		Exposure:        exposure,
		CommodityTicker: strings.TrimSpace(r.Commodity),
		ForexTicker:     strings.TrimSpace(r.Forex),
		Start:           start,
		End:             end,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &inputError{field: field, value: value, msg: "expected YYYY-MM-DD"}
	}
	return t, nil
}
