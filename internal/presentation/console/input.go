package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/core/types"
)

// Accepted date layouts, day first as operators in es-CO write them.
var dateLayouts = []string{"02/01/2006", "2006-01-02"}

// prompter writes a label and reads one line per value.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{sc: bufio.NewScanner(in), out: out}
}

// line returns the trimmed next line, or io.EOF when input is exhausted.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		fmt.Fprintln(p.out)
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

// integer reads a whole number; field names the value in the error.
func (p *prompter) integer(label, field string) (int, error) {
	s, err := p.line(label)
	if err != nil {
		return 0, err
	}
	return parseInt(s, field)
}

// integerOr reads a whole number; a blank line yields def.
func (p *prompter) integerOr(label, field string, def int) (int, error) {
	s, err := p.line(label)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	return parseInt(s, field)
}

// id reads a positive identifier.
func (p *prompter) id(label, field string) (int64, error) {
	n, err := p.integer(label, field)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, apperror.NewInvalidInput(field, fmt.Errorf("id must be positive, got %d", n))
	}
	return int64(n), nil
}

// money reads an amount; "1500.50" and "1500,50" are both accepted.
func (p *prompter) money(label, field string) (types.Money, error) {
	s, err := p.line(label)
	if err != nil {
		return types.Zero(), err
	}
	return parseMoney(s, field)
}

// moneyOr reads an amount; a blank line yields def.
func (p *prompter) moneyOr(label, field string, def types.Money) (types.Money, error) {
	s, err := p.line(label)
	if err != nil {
		return types.Zero(), err
	}
	if s == "" {
		return def, nil
	}
	return parseMoney(s, field)
}

// date reads a calendar date in local time.
func (p *prompter) date(label, field string) (time.Time, error) {
	s, err := p.line(label)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.NewInvalidInput(field, fmt.Errorf("unrecognised date %q", s))
}

// confirm reads s/si as yes; anything else is no.
func (p *prompter) confirm(label string) (bool, error) {
	s, err := p.line(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "s", "si", "sí":
		return true, nil
	}
	return false, nil
}

func parseInt(s, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperror.NewInvalidInput(field, err)
	}
	return n, nil
}

func parseMoney(s, field string) (types.Money, error) {
	m, err := types.NewMoneyFromString(s)
	if err != nil {
		return types.Zero(), apperror.NewInvalidInput(field, err)
	}
	return m, nil
}
