package train

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmt/pkg/core"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// Parquet column names. The manifest's tokenization section refers to them.
const (
	SourceColumn = core.ColumnMarathi
	TargetColumn = core.ColumnEnglish
)

// Record is one row of a dataset file.
type Record struct {
	MarathiText string `parquet:"name=marathi_text, type=BYTE_ARRAY, convertedtype=UTF8"`
	EnglishText string `parquet:"name=english_text, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// WriteDataset writes trimmed pairs to a snappy-compressed parquet file.
func WriteDataset(path string, pairs []core.TranslationPair) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	pw, err := writer.NewParquetWriter(fw, new(Record), 2)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, p := range pairs {
		rec := Record{
			MarathiText: strings.TrimSpace(p.MarathiText),
			EnglishText: strings.TrimSpace(p.EnglishText),
		}
		if err := pw.Write(rec); err != nil {
			_ = fw.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return fw.Close()
}

// ReadDataset reads a dataset written by WriteDataset.
func ReadDataset(path string) ([]Record, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = fr.Close() }()

	pr, err := reader.NewParquetReader(fr, new(Record), 2)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	records := make([]Record, int(pr.GetNumRows()))
	if err := pr.Read(&records); err != nil {
		return nil, fmt.Errorf("failed to read parquet records: %w", err)
	}
	return records, nil
}
