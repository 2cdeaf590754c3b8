// Package validate implements the form-field rules of the CRM: Brazilian
// document masks (CNPJ, CEP, phone) and the per-field validators that run
// before any write or optimistic mutation is attempted.
package validate

import "strings"

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CNPJMask formats a digit string as 99.999.999/9999-99, truncating extra
// input. Partial input yields a partial mask, matching as-you-type behavior.
func CNPJMask(value string) string {
	d := digits(value)
	if len(d) > 14 {
		d = d[:14]
	}
	var b strings.Builder
	for i, r := range d {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PhoneMask formats a digit string as (99) 9999-9999, or (99) 99999-9999 when
// the number carries the mobile ninth digit.
func PhoneMask(value string) string {
	d := digits(value)
	if len(d) > 11 {
		d = d[:11]
	}
	hyphen := 6
	if len(d) > 10 {
		hyphen = 7
	}
	var b strings.Builder
	for i, r := range d {
		switch i {
		case 0:
			b.WriteByte('(')
		case 2:
			b.WriteString(") ")
		case hyphen:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CEPMask formats a digit string as 99999-999.
func CEPMask(value string) string {
	d := digits(value)
	if len(d) > 8 {
		d = d[:8]
	}
	if len(d) > 5 {
		return d[:5] + "-" + d[5:]
	}
	return d
}
