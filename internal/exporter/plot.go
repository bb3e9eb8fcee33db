// Package exporter writes the aligned return series for external plotting tools.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"FxHedger/internal/model"
)

var plotHeader = []string{"date", "commodity_return", "forex_return"}

// WritePlotData writes one CSV row per aligned date. Values are written at
// full precision.
func WritePlotData(w io.Writer, pair model.AlignedPair) error {
	if len(pair.Commodity) != pair.Len() || len(pair.Forex) != pair.Len() {
		return fmt.Errorf("aligned pair length mismatch: %d dates, %d commodity, %d forex",
			pair.Len(), len(pair.Commodity), len(pair.Forex))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(plotHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, d := range pair.Dates {
		row := []string{
			d.Format(model.DateLayout),
			strconv.FormatFloat(pair.Commodity[i], 'g', -1, 64),
			strconv.FormatFloat(pair.Forex[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePlotFile writes the plot data to path, replacing any existing file.
func WritePlotFile(path string, pair model.AlignedPair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	if err := WritePlotData(f, pair); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
