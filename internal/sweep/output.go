package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// FormatLayerHeaders returns the column names of WriteLayerCSV.
func FormatLayerHeaders() []string {
	return []string{"run_id", "layer", "layer_start", "order", "label", "mse"}
}

// WriteLayerCSV writes one row per layer and order with its MSE.
func WriteLayerCSV(w io.Writer, r *Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FormatLayerHeaders()); err != nil {
		return err
	}
	for _, lr := range r.Layers {
		for _, e := range lr.Entries {
			row := []string{
				r.RunID,
				strconv.Itoa(lr.Index),
				formatFloat(lr.Start),
				e.Name,
				e.Label,
				strconv.FormatFloat(e.MSE, 'g', 10, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatProfileHeaders returns the column names of WriteProfileCSV: the
// position, the intended dose and one delivered column per layer and order.
func FormatProfileHeaders(r *Result) []string {
	header := []string{"position", "intended"}
	for _, lr := range r.Layers {
		for _, e := range lr.Entries {
			header = append(header, fmt.Sprintf("layer%d_%s", lr.Index+1, e.Name))
		}
	}
	return header
}

// WriteProfileCSV writes the sampled intended and delivered profiles, one
// row per sample position. r must still carry its profiles (not Compact).
func WriteProfileCSV(w io.Writer, r *Result) error {
	if len(r.Positions) == 0 || len(r.Intended) != len(r.Positions) {
		return fmt.Errorf("result %s carries no profiles", r.RunID)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(FormatProfileHeaders(r)); err != nil {
		return err
	}
	for i, pos := range r.Positions {
		row := []string{formatFloat(pos), formatFloat(r.Intended[i])}
		for _, lr := range r.Layers {
			for _, e := range lr.Entries {
				if i >= len(e.Delivered) {
					return fmt.Errorf("layer %d order %s carries no delivered profile", lr.Index, e.Name)
				}
				row = append(row, formatFloat(e.Delivered[i]))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatSweepHeaders returns the column names of WriteSweepCSV.
func FormatSweepHeaders(orderNames []string) []string {
	header := append([]string{"run_id"}, ParamNames...)
	for _, name := range orderNames {
		header = append(header, name+"_mse_mean", name+"_mse_stddev")
	}
	return append(header, "best_order")
}

// WriteSweepCSV writes one row per combination with each order's MSE
// mean and standard deviation across layers, columns in order-set order.
func WriteSweepCSV(w io.Writer, r *SweepResult) error {
	names := make([]string, len(r.Orders))
	for i, no := range r.Orders {
		names[i] = no.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(FormatSweepHeaders(names)); err != nil {
		return err
	}
	for _, cr := range r.Combos {
		row := []string{r.RunID}
		for _, v := range cr.Combo.Values() {
			row = append(row, formatFloat(v))
		}
		byName := make(map[string]OrderSummary, len(cr.Summaries))
		for _, s := range cr.Summaries {
			byName[s.Name] = s
		}
		for _, name := range names {
			s := byName[name]
			row = append(row, strconv.FormatFloat(s.Mean, 'g', 10, 64), strconv.FormatFloat(s.Stddev, 'g', 10, 64))
		}
		best := ""
		if len(cr.Summaries) > 0 {
			best = cr.Summaries[0].Name
		}
		row = append(row, best)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
