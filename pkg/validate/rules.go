package validate

import (
	"regexp"
	"strings"
)

var (
	cnpjRe    = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	phoneRe   = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	cepRe     = regexp.MustCompile(`^\d{5}-\d{3}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	websiteRe = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)
)

// FieldError is one inline validation failure, addressed to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// Violations collects field errors for a whole payload. A nil or empty
// Violations means the payload passed.
type Violations []FieldError

func (v Violations) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v *Violations) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// AsError returns the collected violations as an error, or nil when clean.
func (v Violations) AsError() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Required rejects empty or whitespace-only values.
func Required(v *Violations, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, message)
	}
}

// Optional format validators: empty values pass, since requiredness is
// checked separately.

func CNPJ(v *Violations, field, value string) {
	if value != "" && !cnpjRe.MatchString(value) {
		v.Add(field, "CNPJ inválido")
	}
}

func Phone(v *Violations, field, value string) {
	if value != "" && !phoneRe.MatchString(value) {
		v.Add(field, "Telefone inválido")
	}
}

func CEP(v *Violations, field, value string) {
	if value != "" && !cepRe.MatchString(value) {
		v.Add(field, "CEP inválido")
	}
}

func Email(v *Violations, field, value string) {
	if value != "" && !emailRe.MatchString(value) {
		v.Add(field, "Email inválido")
	}
}

func Website(v *Violations, field, value string) {
	if value != "" && !websiteRe.MatchString(value) {
		v.Add(field, "Website inválido")
	}
}

// NonNegative rejects negative currency values.
func NonNegative(v *Violations, field string, value int64) {
	if value < 0 {
		v.Add(field, "Valor deve ser maior ou igual a zero")
	}
}

// NormalizeWebsite defaults the scheme to https, matching how the original
// form stored bare domains.
func NormalizeWebsite(value string) string {
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return "https://" + value
	}
	return value
}
