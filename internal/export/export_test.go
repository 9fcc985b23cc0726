package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendlog/internal/currency"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/Veraticus/spendlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSV(t *testing.T) {
	conv := currency.NewConverter(model.EUR)
	quoted := testutil.NewEntry("q").On("2024-12-06").In(model.CategoryFood).
		Described(`Lunch, "the usual"`).Costs("12.5").Build()
	rows := pipeline.Rows([]model.Entry{testutil.MetroCard(), quoted}, conv)

	tests := []struct {
		name string
		opts CSVOptions
		want string
	}{
		{
			name: "plain",
			opts: CSVOptions{},
			want: `"Date","Category","Description","Amount"` + "\r\n" +
				`"2024-12-05","Transport","Metro card","25.00"` + "\r\n" +
				`"2024-12-06","Food","Lunch, ""the usual""","12.50"`,
		},
		{
			name: "with currency",
			opts: CSVOptions{IncludeCurrency: true},
			want: `"Date","Category","Description","Amount","Currency","Display Amount"` + "\r\n" +
				`"2024-12-05","Transport","Metro card","25.00","USD","23.25"` + "\r\n" +
				`"2024-12-06","Food","Lunch, ""the usual""","12.50","USD","11.63"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CSV(rows, tt.opts)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.HasSuffix(got, "\r\n"))
		})
	}
}

func TestCSVHeaderOnly(t *testing.T) {
	assert.Equal(t, `"Date","Category","Description","Amount"`, CSV(nil, CSVOptions{}))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := pipeline.Rows([]model.Entry{testutil.MetroCard()}, currency.NewConverter(model.USD))
	require.NoError(t, WriteCSV(&buf, rows, CSVOptions{}))
	assert.Equal(t, CSV(rows, CSVOptions{}), buf.String())
}

func TestWriteXLSX(t *testing.T) {
	entries := testutil.SampleEntries()
	conv := currency.NewConverter(model.USD)
	rows := pipeline.Rows(entries, conv)
	summary := pipeline.Aggregate(entries, entries, conv, time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rows, summary))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{ExpensesSheet, SummarySheet}, f.GetSheetList())

	got, err := f.GetRows(ExpensesSheet)
	require.NoError(t, err)
	require.Len(t, got, len(entries)+1)
	assert.Equal(t, []string{"Date", "Category", "Description", "Amount", "Currency", "Amount (USD)"}, got[0])
	assert.Equal(t, "2024-12-05", got[1][0])
	assert.Equal(t, "Metro card", got[1][2])

	raw, err := f.GetCellValue(ExpensesSheet, "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "25", raw)

	sum, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, "Display currency", sum[0][0])
	assert.Equal(t, "USD", sum[0][1])
	assert.Equal(t, "Category", sum[6][0])
	assert.Equal(t, "Transport", sum[7][0])
}
