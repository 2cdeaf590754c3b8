package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/validate"
)

func TestCNPJMask(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-95", validate.CNPJMask("12345678000195"))
	assert.Equal(t, "12.345.678/0001-95", validate.CNPJMask("12.345.678/0001-95"))
	assert.Equal(t, "12.345", validate.CNPJMask("12345"))
	assert.Equal(t, "12.345.678/0001-95", validate.CNPJMask("123456780001959999"))
	assert.Equal(t, "", validate.CNPJMask(""))
}

func TestPhoneMask(t *testing.T) {
	assert.Equal(t, "(11) 3456-7890", validate.PhoneMask("1134567890"))
	assert.Equal(t, "(11) 93456-7890", validate.PhoneMask("11934567890"))
	assert.Equal(t, "(11) 9345", validate.PhoneMask("119345"))
	assert.Equal(t, "(11) 93456-7890", validate.PhoneMask("(11) 93456-7890"))
}

func TestCEPMask(t *testing.T) {
	assert.Equal(t, "01310-100", validate.CEPMask("01310100"))
	assert.Equal(t, "01310", validate.CEPMask("01310"))
	assert.Equal(t, "01310-100", validate.CEPMask("01310-100999"))
}

func TestMasksAreIdempotent(t *testing.T) {
	for _, raw := range []string{"12345678000195", "11934567890", "01310100"} {
		once := validate.CNPJMask(raw)
		assert.Equal(t, once, validate.CNPJMask(once))
	}
}

func TestFormatValidators(t *testing.T) {
	t.Run("valid payload collects nothing", func(t *testing.T) {
		var v validate.Violations
		validate.Required(&v, "name", "Acme Ltda", "Nome é obrigatório")
		validate.CNPJ(&v, "cnpj", "12.345.678/0001-95")
		validate.Phone(&v, "phone", "(11) 93456-7890")
		validate.CEP(&v, "cep", "01310-100")
		validate.Email(&v, "email", "contato@acme.com.br")
		validate.Website(&v, "website", "acme.com.br")
		assert.NoError(t, v.AsError())
	})

	t.Run("each broken field reports once", func(t *testing.T) {
		var v validate.Violations
		validate.Required(&v, "name", "  ", "Nome é obrigatório")
		validate.CNPJ(&v, "cnpj", "12345678000195")
		validate.Phone(&v, "phone", "11934567890")
		validate.CEP(&v, "cep", "01310100")
		validate.Email(&v, "email", "not-an-email")

		err := v.AsError()
		require.Error(t, err)
		require.Len(t, v, 5)
		assert.Equal(t, "name", v[0].Field)
		assert.Equal(t, "Nome é obrigatório", v[0].Message)
	})

	t.Run("optional fields pass when empty", func(t *testing.T) {
		var v validate.Violations
		validate.CNPJ(&v, "cnpj", "")
		validate.Phone(&v, "phone", "")
		validate.Email(&v, "email", "")
		assert.NoError(t, v.AsError())
	})
}

func TestNormalizeWebsite(t *testing.T) {
	assert.Equal(t, "https://acme.com.br", validate.NormalizeWebsite("acme.com.br"))
	assert.Equal(t, "http://acme.com.br", validate.NormalizeWebsite("http://acme.com.br"))
	assert.Equal(t, "", validate.NormalizeWebsite(""))
}

func TestNonNegative(t *testing.T) {
	var v validate.Violations
	validate.NonNegative(&v, "value", 0)
	validate.NonNegative(&v, "value", 150000)
	assert.NoError(t, v.AsError())
	validate.NonNegative(&v, "value", -1)
	assert.Error(t, v.AsError())
}
