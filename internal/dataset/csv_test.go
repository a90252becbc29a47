package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Test-ID,Cell-Description,Trigger-Mechanism,Avg-Cell-Temp-At-Trigger-degC,Notes
1,KULR 18650-K330,Heater (ISC),100.0,
2,KULR 18650-K330,Heater (ISC),105,"side wall, breach"
3,KULR 18650-K330,Heater (ISC),,not measured
4,KULR 18650-K330,Nail,NaN,
5,Samsung 30Q,Heater (ISC), 151.5 ,
6,"Cell, with comma",Heater (ISC),n/a,
`

func TestRead(t *testing.T) {
	records, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.Equal(t, "KULR 18650-K330", records[0].CellDescription)
	assert.Equal(t, "Heater (ISC)", records[0].TriggerMechanism)

	temps := make([]*float64, len(records))
	for i, r := range records {
		temps[i] = r.AvgCellTempAtTrigger
	}
	require.NotNil(t, temps[0])
	assert.Equal(t, 100.0, *temps[0])
	require.NotNil(t, temps[1])
	assert.Equal(t, 105.0, *temps[1])
	assert.Nil(t, temps[2])
	assert.Nil(t, temps[3])
	require.NotNil(t, temps[4])
	assert.Equal(t, 151.5, *temps[4])
	assert.Nil(t, temps[5])

	assert.Equal(t, "Cell, with comma", records[5].CellDescription)
}

func TestRead_KeepsCategorySpacing(t *testing.T) {
	data := "Cell-Description, Trigger-Mechanism ,Avg-Cell-Temp-At-Trigger-degC\n KULR,Heater ,100\n"
	records, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, " KULR", records[0].CellDescription)
	assert.Equal(t, "Heater ", records[0].TriggerMechanism)
	require.NotNil(t, records[0].AvgCellTempAtTrigger)
	assert.Equal(t, 100.0, *records[0].AvgCellTempAtTrigger)
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("Cell-Description,Trigger-Mechanism\nA,B\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestRead_ShortRowsAndBOM(t *testing.T) {
	data := "\ufeffCell-Description,Trigger-Mechanism,Avg-Cell-Temp-At-Trigger-degC\nA,B\nA,B,99\n"
	records, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[0].AvgCellTempAtTrigger)
	assert.Equal(t, 99.0, *records[1].AvgCellTempAtTrigger)
}

func TestFile_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data_failure.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	records, err := File{Path: path}.Records()
	require.NoError(t, err)
	assert.Len(t, records, 6)

	_, err = File{Path: filepath.Join(t.TempDir(), "missing.csv")}.Records()
	assert.Error(t, err)
}
