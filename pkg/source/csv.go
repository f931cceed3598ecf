package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/msugsc-shs/research-archive/pkg/archive"
	"github.com/msugsc-shs/research-archive/pkg/log"
)

// CSV reads a local export of the archive sheet. The first row is the header.
type CSV struct {
	Path string
}

func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

func (c *CSV) FetchAll(ctx context.Context) ([]archive.Archive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, unavailable("opening %s: %v", c.Path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	archives, err := Normalize(rows)
	if err != nil {
		return nil, err
	}
	log.ForService("source").Debugf("read %d archives from %s", len(archives), c.Path)
	return archives, nil
}

// ReadCSV reads every row of r. Rows may have any number of fields.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing csv: %v", archive.ErrSourceUnavailable, err)
	}
	return rows, nil
}
