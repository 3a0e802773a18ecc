package merge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/spfmerge/pkg/config"
	"github.com/yurifrl/spfmerge/pkg/parser"
)

func records(rows ...[]string) dataframe.DataFrame {
	table := parser.NewTable(rows[0], rows[1:])
	df, err := frame(table)
	if err != nil {
		panic(err)
	}
	return df
}

func TestMergeInnerJoin(t *testing.T) {
	cfg := config.Default().Inflation
	forecasts := records(
		[]string{"FCT_SOURCE", "TARGET_PERIOD", "POINT"},
		[]string{"1", "2021Sep", "1.5"},
		[]string{"2", "2021Sep", ""},
		[]string{"1", "2030Sep", "2.0"},
		[]string{"1", "2021Dec", "1.9"},
	)
	realized := records(
		[]string{"DATE", "TIME PERIOD", cfg.ValueColumn},
		[]string{"2021-09-30", "2021Sep", "3.4"},
		[]string{"2021-10-31", "2021Oct", "4.1"},
		[]string{"2021-12-31", "2021Dec", "5.0"},
	)

	merged, err := Merge(forecasts, realized, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"TARGET_PERIOD", "FCT_SOURCE", "POINT", "Observed_HICP_Inflation"}, merged.Names())
	require.Equal(t, 3, merged.Nrow())

	periods := merged.Col("TARGET_PERIOD").Records()
	assert.NotContains(t, periods, "2030Sep", "periods without a realized value are dropped")
	assert.Equal(t, []string{"2021Sep", "2021Sep", "2021Dec"}, periods)
	assert.Equal(t, []string{"3.4", "3.4", "5.0"}, merged.Col("Observed_HICP_Inflation").Records())
	assert.Equal(t, []string{"1.5", "", "1.9"}, merged.Col("POINT").Records())
}

func TestMergeMarkers(t *testing.T) {
	cfg := config.Default().Unemployment
	forecasts := records(
		[]string{"FCT_SOURCE", "TARGET_PERIOD", "POINT"},
		[]string{"1", "2021Nov", "8.1"},
		[]string{"1", "2021Oct", "8.0"},
	)
	realized := records(
		[]string{"TIME PERIOD", cfg.ValueColumn},
		[]string{"2021Nov", "7.1"},
		[]string{"2021Oct", "7.2"},
	)

	merged, err := Merge(forecasts, realized, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"2021Nov"}, merged.Col("TARGET_PERIOD").Records())
}

func TestMergeWithoutMarkers(t *testing.T) {
	cfg := config.Default().GDP
	forecasts := records(
		[]string{"FCT_SOURCE", "TARGET_PERIOD", "POINT", "TN1_0"},
		[]string{"1", "2021Q3", "4.5", "0.1"},
		[]string{"1", "2021Q4", "3.0", ""},
	)
	realized := records(
		[]string{"TIME PERIOD", cfg.ValueColumn},
		[]string{"2021Q3", "3.9"},
		[]string{"2021Q4", "4.8"},
	)

	merged, err := Merge(forecasts, realized, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Nrow())
	assert.Equal(t, []string{"3.9", "4.8"}, merged.Col("Observed_GDP_Growth").Records())
}

func TestMergeMissingColumns(t *testing.T) {
	cfg := config.Default().GDP
	forecasts := records(
		[]string{"FCT_SOURCE", "TARGET_PERIOD", "POINT"},
		[]string{"1", "2021Q3", "4.5"},
	)
	realized := records(
		[]string{"TIME PERIOD", "GDP"},
		[]string{"2021Q3", "3.9"},
	)

	_, err := Merge(forecasts, realized, cfg)
	assert.True(t, errors.Is(err, parser.ErrMissingColumns), "got %v", err)
}

func TestRunInflation(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default().Inflation
	cfg.Series = filepath.Join(dir, "HICP_Inflation_Monthly.csv")
	cfg.Merged = filepath.Join(dir, "out", "SPF_ECB_Inflation_MERGED.csv")
	panelPath := filepath.Join(dir, "Inflation_SPF.csv")

	hicp := "Euro area HICP, annual rate of change\n" +
		"DATE;TIME PERIOD;HICP - Overall index (ICP.M.U2.N.000000.4.ANR)\n" +
		"2021-12-31;2021Dec;5.0\n" +
		"2021-11-30;2021Nov;4.9\n" +
		"2021-09-30;2021Sep;3.4\n"
	pnl := "FCT_SOURCE,TARGET_PERIOD,POINT\n1,2021Dec,1.4\n2,2021Dec,\n1,2021Nov,1.1\n1,2022Sep,1.7\n"
	require.NoError(t, os.WriteFile(cfg.Series, []byte(hicp), 0644))
	require.NoError(t, os.WriteFile(panelPath, []byte(pnl), 0644))

	m := New(log.Default())
	n, err := m.Run(panelPath, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out, err := os.ReadFile(cfg.Merged)
	require.NoError(t, err)
	want := "TARGET_PERIOD,FCT_SOURCE,POINT,Observed_HICP_Inflation\n" +
		"2021Dec,1,1.4,5.0\n" +
		"2021Dec,2,,5.0\n"
	assert.Equal(t, want, string(out))

	// unchanged inputs give identical output
	_, err = m.Run(panelPath, cfg)
	require.NoError(t, err)
	again, err := os.ReadFile(cfg.Merged)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRunWorkbookSeries(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default().Unemployment
	cfg.Series = filepath.Join(dir, "ECB_Unemployment.xlsx")
	cfg.Merged = filepath.Join(dir, "SPF_ECB_Unemployment_MERGED.csv")
	panelPath := filepath.Join(dir, "UNEMPLOYMENT_SPF.csv")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"DATE", "TIME PERIOD", cfg.ValueColumn},
		{"2021-11-30", "2021Nov", "7.1"},
		{"2021-08-31", "2021Aug", "7.5"},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	require.NoError(t, f.SaveAs(cfg.Series))

	pnl := "FCT_SOURCE,TARGET_PERIOD,POINT,TN1_0\n1,2021Nov,8.1,\n4,2021Nov,8.3,0.5\n2,2021Aug,7.9,\n"
	require.NoError(t, os.WriteFile(panelPath, []byte(pnl), 0644))

	n, err := New(log.Default()).Run(panelPath, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out, err := os.ReadFile(cfg.Merged)
	require.NoError(t, err)
	want := "TARGET_PERIOD,FCT_SOURCE,POINT,Observed_Unemployment_Rate\n" +
		"2021Nov,1,8.1,7.1\n" +
		"2021Nov,4,8.3,7.1\n" +
		"2021Aug,2,7.9,7.5\n"
	assert.Equal(t, want, string(out))
}

func TestRunMissingPanel(t *testing.T) {
	cfg := config.Default().GDP
	_, err := New(log.Default()).Run(filepath.Join(t.TempDir(), "GDP_SPF.csv"), cfg)
	assert.Error(t, err)
}
