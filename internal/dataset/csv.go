// Package dataset читает исторические записи о тепловом разгоне из CSV
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"runaway-service/internal/models"
)

// Названия столбцов датасета
const (
	ColumnCellDescription  = "Cell-Description"
	ColumnTriggerMechanism = "Trigger-Mechanism"
	ColumnAvgCellTemp      = "Avg-Cell-Temp-At-Trigger-degC"
)

// ErrMissingColumn в заголовке нет обязательного столбца
var ErrMissingColumn = errors.New("missing required column")

// Source источник записей датасета
type Source interface {
	Records() ([]models.EventRecord, error)
}

// File датасет в CSV-файле, перечитывается при каждом вызове Records
type File struct {
	Path string
}

// Records читает файл целиком
func (f File) Records() ([]models.EventRecord, error) {
	return LoadCSV(f.Path)
}

// Static фиксированный набор записей
type Static []models.EventRecord

// Records возвращает записи без копирования
func (s Static) Records() ([]models.EventRecord, error) {
	return s, nil
}

// LoadCSV открывает и разбирает CSV-файл
func LoadCSV(path string) ([]models.EventRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read разбирает CSV с заголовком. Лишние столбцы игнорируются.
// Пустая, нечисловая или NaN температура считается отсутствующей.
// Значения ячейки и механизма не обрезаются: сравнение точное.
func Read(r io.Reader) ([]models.EventRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty dataset", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		// Excel добавляет BOM в начало файла
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	cols := make([]int, 3)
	for i, name := range []string{ColumnCellDescription, ColumnTriggerMechanism, ColumnAvgCellTemp} {
		idx, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[i] = idx
	}

	records := make([]models.EventRecord, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, models.EventRecord{
			CellDescription:      field(row, cols[0]),
			TriggerMechanism:     field(row, cols[1]),
			AvgCellTempAtTrigger: parseTemperature(field(row, cols[2])),
		})
	}
	return records, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func parseTemperature(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
