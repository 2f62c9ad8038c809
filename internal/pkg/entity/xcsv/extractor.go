package xcsv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/teltech/logger"
	"github.com/tidwall/sjson"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/pkg/notify"
)

const sourceTypeId = "csvfile"

type ExtractorFactory struct{}

func NewExtractorFactory() entity.ExtractorFactory {
	return &ExtractorFactory{}
}

func (ef *ExtractorFactory) SourceId() string {
	return sourceTypeId
}

func (ef *ExtractorFactory) NewExtractor(ctx context.Context, c entity.Config) (entity.Extractor, error) {
	return newExtractor(c)
}

func (ef *ExtractorFactory) Close() error {
	return nil
}

// extractor reads one delimited-text table with a header row and reports all its
// rows as a single batch. All cells are read as raw strings (no type detection)
// so values pass through to the transform untouched.
type extractor struct {
	c        entity.Config
	notifier *notify.Notifier
}

func newExtractor(c entity.Config) (*extractor, error) {
	if c.Spec.Source.Config.Path == "" {
		return nil, errors.New("no input path provided in csvfile source config")
	}

	var log *logger.Log
	if c.Log {
		log = logger.New()
	}
	return &extractor{
		c:        c,
		notifier: notify.New(c.NotifyChan, log, 2, "xcsv.extractor", c.ID, c.Spec.Id()),
	}, nil
}

func (e *extractor) BatchExtract(ctx context.Context, reportRows entity.ProcessRowsFunc, err *error) {

	sourceConfig := e.c.Spec.Source.Config

	df, readErr := readTable(sourceConfig.Path)
	if readErr != nil {
		*err = readErr
		return
	}

	// Explicit column allow-list on read: extra input columns are ignored, listed
	// columns absent from the header are skipped.
	if len(sourceConfig.Columns) > 0 {
		df = selectColumns(df, sourceConfig.Columns)
		if df.Err != nil {
			*err = df.Err
			return
		}
	}

	rows, convErr := rowsFromRecords(df.Names(), df.Records()[1:])
	if convErr != nil {
		*err = convErr
		return
	}

	e.notifier.Notify(entity.NotifyLevelInfo, "extracted %d rows from %s", len(rows), sourceConfig.Path)

	result := reportRows(ctx, rows)
	if result.Error != nil {
		*err = result.Error
	}
}

func readTable(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer file.Close()

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df, fmt.Errorf("could not read table %s: %v", path, df.Err)
	}
	return df, nil
}

func selectColumns(df dataframe.DataFrame, allowList []string) dataframe.DataFrame {
	present := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = true
	}
	var keep []string
	for _, name := range allowList {
		if present[name] {
			keep = append(keep, name)
		}
	}
	return df.Select(keep)
}

// rowsFromRecords serializes each record as a JSON object with one member per
// non-empty cell. Empty cells are omitted so that a missing/null value is
// represented by field absence in the row event.
func rowsFromRecords(header []string, records [][]string) ([]entity.Row, error) {

	rows := make([]entity.Row, 0, len(records))
	ts := time.Now()

	for _, record := range records {
		var (
			data []byte
			err  error
		)
		for i, cell := range record {
			if i >= len(header) || emptyCell(cell) {
				continue
			}
			if data, err = sjson.SetBytes(data, header[i], cell); err != nil {
				return nil, fmt.Errorf("could not serialize row %v: %v", record, err)
			}
		}
		rows = append(rows, entity.Row{Data: data, Ts: ts})
	}
	return rows, nil
}

func emptyCell(cell string) bool {
	return cell == "" || cell == "NaN"
}
