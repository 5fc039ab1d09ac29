package transactions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/basket-enricher/internal/logger"
	"github.com/ginjaninja78/basket-enricher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadReader_SkipsMalformedLine(t *testing.T) {
	content := `{"customer_id": "C1", "basket": [{"product_id": "P1", "price": 4.5}]}
{"customer_id": "C2", "basket": [
`
	var reported []*ParseError
	loader := NewLoader(ReporterFunc(func(pe *ParseError) { reported = append(reported, pe) }))

	result, err := loader.LoadReader("day1.json", strings.NewReader(content))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "C1", result.Transactions[0].Customer())
	assert.Equal(t, []string{"P1"}, result.Transactions[0].ProductIDs())

	require.Len(t, reported, 1)
	assert.Equal(t, "day1.json", reported[0].File)
	assert.Equal(t, 2, reported[0].Line)
	assert.Equal(t, reported, result.ParseErrors)
	assert.Equal(t, 2, result.Lines)
}

func TestLoadReader_LineShapes(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantTxn     bool
		hasCustomer bool
		basketLen   int
	}{
		{"full record", `{"customer_id":"C1","basket":[{"product_id":"P1"},{"product_id":"P2"}]}`, true, true, 2},
		{"missing basket", `{"customer_id":"C1"}`, true, true, 0},
		{"null basket", `{"customer_id":"C1","basket":null}`, true, true, 0},
		{"missing customer", `{"basket":[{"product_id":"P1"}]}`, true, false, 1},
		{"null customer", `{"customer_id":null,"basket":[{"product_id":"P1"}]}`, true, false, 1},
		{"extra fields", `{"customer_id":"C1","date_of_purchase":"2024-01-01","basket":[]}`, true, true, 0},
		{"truncated", `{"customer_id":"C1",`, false, false, 0},
		{"array", `[1,2,3]`, false, false, 0},
		{"null literal", `null`, false, false, 0},
		{"string literal", `"C1"`, false, false, 0},
		{"numeric customer", `{"customer_id":7,"basket":[]}`, false, false, 0},
		{"trailing garbage", `{"customer_id":"C1"} x`, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader(tt.line+"\n"))
			require.NoError(t, err)

			if !tt.wantTxn {
				assert.Empty(t, result.Transactions)
				assert.Len(t, result.ParseErrors, 1)
				return
			}

			require.Len(t, result.Transactions, 1)
			assert.Empty(t, result.ParseErrors)
			txn := result.Transactions[0]
			assert.Equal(t, tt.hasCustomer, txn.HasCustomer())
			assert.NotNil(t, txn.Basket)
			assert.Len(t, txn.Basket, tt.basketLen)
		})
	}
}

func TestLoadReader_NotObjectError(t *testing.T) {
	result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader("[]\n"))
	require.NoError(t, err)
	require.Len(t, result.ParseErrors, 1)
	assert.True(t, errors.Is(result.ParseErrors[0], errNotObject))
}

func TestLoadReader_BlankLinesAndNoTrailingNewline(t *testing.T) {
	content := "\n  \n{\"customer_id\":\"C1\",\"basket\":[]}\r\n\n{\"customer_id\":\"C2\",\"basket\":[]}"

	result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader(content))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "C2", result.Transactions[1].Customer())
	assert.Equal(t, 2, result.Lines)
	assert.Empty(t, result.ParseErrors)
}

func TestLoadReader_LineNumbersCountBlankLines(t *testing.T) {
	content := "{\"customer_id\":\"C1\"}\n\nnot json\n"

	result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, result.ParseErrors, 1)
	assert.Equal(t, 3, result.ParseErrors[0].Line)
	assert.Contains(t, result.ParseErrors[0].Error(), "error loading JSON in file t.json (line 3)")
}

func TestLoadReader_LongLine(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"customer_id":"C1","basket":[`)
	for i := 0; i < 20000; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"product_id":"P1"}`)
	}
	b.WriteString("]}\n")

	result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Len(t, result.Transactions[0].Basket, 20000)
}

func TestLoadFiles_Order(t *testing.T) {
	dir := t.TempDir()
	first := writeTempFile(t, dir, "a/transactions.json",
		"{\"customer_id\":\"C1\",\"basket\":[]}\n{\"customer_id\":\"C2\",\"basket\":[]}\n")
	second := writeTempFile(t, dir, "b/transactions.json",
		"{\"customer_id\":\"C3\",\"basket\":[]}\n")

	result, err := NewLoader(nil).LoadFiles([]string{second, first})
	require.NoError(t, err)

	var ids []string
	for _, txn := range result.Transactions {
		ids = append(ids, txn.Customer())
	}
	assert.Equal(t, []string{"C3", "C1", "C2"}, ids)
	assert.Equal(t, []string{second, first}, result.Files)
	assert.Equal(t, 3, result.Lines)
}

func TestLoadFiles_MissingFileIsFatal(t *testing.T) {
	_, err := NewLoader(nil).LoadFiles([]string{filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestLoadFiles_Empty(t *testing.T) {
	result, err := NewLoader(nil).LoadFiles(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.NoError(t, result.Err())
}

func TestResult_Err(t *testing.T) {
	content := "bad\n{\"customer_id\":\"C1\"}\nalso bad\n"

	result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader(content))
	require.NoError(t, err)

	combined := result.Err()
	require.Error(t, combined)
	errs := multierr.Errors(combined)
	require.Len(t, errs, 2)

	var pe *ParseError
	require.True(t, errors.As(errs[1], &pe))
	assert.Equal(t, 3, pe.Line)
}

func TestLogReporter(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	loader := NewLoader(LogReporter{Log: logger.FromZap(zap.New(core))})

	_, err := loader.LoadReader("day1.json", strings.NewReader("{oops\n"))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "skipping transaction line")
	fields := entry.ContextMap()
	assert.Equal(t, "day1.json", fields["file"])
	assert.EqualValues(t, 1, fields["line"])
}

func TestTransactionsKeepBasketOrder(t *testing.T) {
	line := `{"customer_id":"C1","basket":[{"product_id":"P3"},{"product_id":"P1"},{"product_id":"P3"},{}]}`

	result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	assert.Equal(t, []types.BasketItem{
		{ProductID: "P3"}, {ProductID: "P1"}, {ProductID: "P3"}, {ProductID: ""},
	}, result.Transactions[0].Basket)
}

func TestLoadReader_MissingProductIDDecodesAsEmpty(t *testing.T) {
	line := `{"customer_id":"C1","basket":[{"price":3},{"product_id":""}]}`

	result, err := NewLoader(nil).LoadReader("t.json", strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, []string{"", ""}, result.Transactions[0].ProductIDs())
}
