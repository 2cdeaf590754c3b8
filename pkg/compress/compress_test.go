package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiate(t *testing.T) {
	assert.Equal(t, TypeNone, Negotiate(""))
	assert.Equal(t, TypeGzip, Negotiate("gzip"))
	assert.Equal(t, TypeBr, Negotiate("gzip, br"))
	assert.Equal(t, TypeZstd, Negotiate("gzip, br, zstd"))
	assert.Equal(t, TypeZstd, Negotiate("zstd;q=0.9, gzip"))
	assert.Equal(t, TypeNone, Negotiate("identity"))
}

func TestCompressShrinksRepetitiveData(t *testing.T) {
	data := bytes.Repeat([]byte(`{"name":"Acme Ltda"},`), 200)
	for _, typ := range []Type{TypeGzip, TypeZstd, TypeBr} {
		out, err := Compress(data, typ)
		require.NoError(t, err)
		assert.Less(t, len(out), len(data), typ.Encoding())
	}
}

func TestCompressNonePassthrough(t *testing.T) {
	data := []byte("abc")
	out, err := Compress(data, TypeNone)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}
