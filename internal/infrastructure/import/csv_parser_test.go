package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{"name", "category", "price", "company"}

func TestNewCSVParser(t *testing.T) {
	t.Run("strips BOM", func(t *testing.T) {
		p, err := ParseFromBytes([]byte("\xEF\xBB\xBFName,Price\nA,1\n"))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, []string{"name", "price"}, p.Headers())
	})

	t.Run("empty stream", func(t *testing.T) {
		_, err := ParseFromBytes(nil)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid UTF-8", func(t *testing.T) {
		_, err := ParseFromBytes([]byte("name\n\xff\xfe\n"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("multi-byte rune across the check window", func(t *testing.T) {
		data := "name\n" + strings.Repeat("a", 4096-6) + "é\n"
		_, err := NewCSVParser(strings.NewReader(data))
		assert.NoError(t, err)
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		p, err := ParseFromBytes([]byte("a;b\n1;2\n"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		row, err := p.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "2", row.Get("b"))
	})
}

func TestCSVParser_MatchHeaderSet(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		optional   []string
		wantErr    bool
		missing    []string
		unexpected []string
		duplicate  []string
	}{
		{name: "exact", header: "name,category,price,company"},
		{name: "any order and case", header: " Company ,PRICE,name,Category"},
		{name: "missing column", header: "name,price,company", wantErr: true, missing: []string{"category"}},
		{name: "extra column", header: "name,category,price,company,sku", wantErr: true, unexpected: []string{"sku"}},
		{name: "duplicate column", header: "name,category,price,company,name", wantErr: true, duplicate: []string{"name"}},
		{name: "only id", header: "id", wantErr: true, missing: []string{"category", "company", "name", "price"}, unexpected: []string{"id"}},
		{name: "optional column present", header: "ID,name,category,price,company", optional: []string{"id"}},
		{name: "optional column absent", header: "name,category,price,company", optional: []string{"id"}},
		{name: "optional column alone", header: "id", optional: []string{"id"}, wantErr: true, missing: []string{"category", "company", "name", "price"}},
		{name: "optional column repeated", header: "id,name,category,price,company,id", optional: []string{"id"}, wantErr: true, duplicate: []string{"id"}},
		{name: "optional does not cover others", header: "id,name,category,price,company,sku", optional: []string{"id"}, wantErr: true, unexpected: []string{"sku"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseFromBytes([]byte(tt.header + "\n"))
			require.NoError(t, err)
			require.NoError(t, p.ParseHeader())

			err = p.MatchHeaderSet(productColumns, tt.optional...)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var mismatch *HeaderMismatch
			require.True(t, errors.As(err, &mismatch))
			assert.Equal(t, tt.missing, mismatch.Missing)
			assert.Equal(t, tt.unexpected, mismatch.Unexpected)
			assert.Equal(t, tt.duplicate, mismatch.Duplicate)
			assert.Contains(t, err.Error(), "header mismatch")
		})
	}
}

func TestCSVParser_ReadRow(t *testing.T) {
	data := "name,category,price,company\n" +
		"Hammer, Tools ,9.99,Acme\n" +
		"\"Multi\nline\",x,1,Acme\n" +
		"Short,1\n" +
		",,,\n" +
		"Last,,2,Acme\n"
	p, err := ParseFromBytes([]byte(data))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 1, row.Index)
	assert.Equal(t, 2, row.LineNumber)
	assert.Equal(t, "Tools", row.Get("category"))
	assert.True(t, row.HasShape(4))

	row, err = p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Index)
	assert.Equal(t, 3, row.LineNumber)
	assert.Equal(t, "Multi\nline", row.Get("name"))

	row, err = p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 3, row.Index)
	assert.Equal(t, 5, row.LineNumber)
	assert.False(t, row.HasShape(4))
	assert.Equal(t, "", row.Get("company"))

	row, err = p.ReadRow()
	require.NoError(t, err)
	assert.True(t, row.IsEmpty())

	row, err = p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 5, row.Index)
	assert.False(t, row.IsEmpty())

	_, err = p.ReadRow()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 5, p.DataRows())
}

func TestCSVParser_SyntaxErrorContinues(t *testing.T) {
	data := "name,category,price,company\n" +
		"Good,,1,Acme\n" +
		"Bad \"quote,,1,Acme\n" +
		"After,,2,Acme\n"
	p, err := ParseFromBytes([]byte(data), WithLazyQuotes(false))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	_, err = p.ReadRow()
	require.NoError(t, err)

	_, err = p.ReadRow()
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 2, syntaxErr.Index)
	assert.Equal(t, 3, syntaxErr.Line)

	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 3, row.Index)
	assert.Equal(t, "After", row.Get("name"))
}

func TestCSVParser_MissingHeader(t *testing.T) {
	p, err := ParseFromBytes([]byte("\n\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, p.ParseHeader(), ErrMissingHeader)
}
