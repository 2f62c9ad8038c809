package xcsv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/teltech/logger"

	"github.com/pvallin/passage/entity"
	"github.com/pvallin/passage/pkg/notify"
)

const sinkTypeId = "csvfile"

type LoaderFactory struct{}

func NewLoaderFactory() entity.LoaderFactory {
	return &LoaderFactory{}
}

func (lf *LoaderFactory) SinkId() string {
	return sinkTypeId
}

func (lf *LoaderFactory) NewLoader(ctx context.Context, c entity.Config) (entity.Loader, error) {
	return newLoader(c)
}

func (lf *LoaderFactory) Close() error {
	return nil
}

// loader writes the complete cleaned table in one shot: header row first, then
// one row per cleaned record, with columns in the fixed order from the sink
// config. Cleaned-record ids missing from a row are written as empty cells, and
// no row-index column is added.
type loader struct {
	c        entity.Config
	notifier *notify.Notifier
}

func newLoader(c entity.Config) (*loader, error) {
	if c.Spec.Sink.Config == nil || c.Spec.Sink.Config.Path == "" {
		return nil, errors.New("no output path provided in csvfile sink config")
	}
	if len(c.Spec.Sink.Config.Columns) == 0 {
		return nil, errors.New("no output columns provided in csvfile sink config")
	}

	var log *logger.Log
	if c.Log {
		log = logger.New()
	}
	return &loader{
		c:        c,
		notifier: notify.New(c.NotifyChan, log, 2, "xcsv.loader", c.ID, c.Spec.Id()),
	}, nil
}

func (l *loader) BatchLoad(ctx context.Context, data []*entity.Transformed) (string, error) {

	sinkConfig := l.c.Spec.Sink.Config

	if len(data) == 0 {
		return "", errors.New("batchLoad called without data to load")
	}

	records := make([][]string, 0, len(data)+1)
	records = append(records, sinkConfig.Columns)

	for _, cleaned := range data {
		if cleaned == nil {
			return "", errors.New("batchLoad called with nil row")
		}
		if l.c.Spec.Ops.LogRowData {
			l.notifier.Notify(entity.NotifyLevelInfo, "loading cleaned row: %s", cleaned.String())
		}
		row := make([]string, len(sinkConfig.Columns))
		for i, column := range sinkConfig.Columns {
			row[i] = renderValue(cleaned.Data[column])
		}
		records = append(records, row)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return "", fmt.Errorf("could not build output table: %v", df.Err)
	}

	file, err := os.Create(sinkConfig.Path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err = df.WriteCSV(file, dataframe.WriteHeader(true)); err != nil {
		return "", fmt.Errorf("could not write table %s: %v", sinkConfig.Path, err)
	}

	l.notifier.Notify(entity.NotifyLevelInfo, "wrote %d rows to %s", len(data), sinkConfig.Path)
	return sinkConfig.Path, nil
}

func (l *loader) Shutdown() {}

// renderValue formats a cleaned-record value as an output cell. Absent values
// (nil) become empty cells, keeping undefined labels as nulls in the output.
func renderValue(value any) string {
	switch value := value.(type) {
	case nil:
		return ""
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case []byte:
		return string(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
