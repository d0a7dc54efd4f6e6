package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/trainready/core/model"
	"github.com/kilianp07/trainready/core/prediction"
	"github.com/kilianp07/trainready/core/ranking"
	"github.com/kilianp07/trainready/core/rules"
)

// RankedVehicle is the flat view of one ranking entry.
type RankedVehicle struct {
	Rank int `json:"rank"`
	model.Vehicle
	Score float64 `json:"score"`
}

// Flatten numbers a ranking from 1.
func Flatten(ranked []ranking.Scored) []RankedVehicle {
	out := make([]RankedVehicle, len(ranked))
	for i, r := range ranked {
		out[i] = RankedVehicle{Rank: i + 1, Vehicle: r.Vehicle, Score: r.Score}
	}
	return out
}

// WriteJSON writes the ranking to w in JSON format.
func WriteJSON(w io.Writer, ranked []ranking.Scored) error {
	enc := json.NewEncoder(w)
	return enc.Encode(Flatten(ranked))
}

// WriteCSV writes the ranking to w in CSV format.
func WriteCSV(w io.Writer, ranked []ranking.Scored) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "id", "branding", "mileage", "stabling_pos", "score"}); err != nil {
		return err
	}
	for _, e := range Flatten(ranked) {
		rec := []string{
			strconv.Itoa(e.Rank),
			e.ID,
			string(e.Branding),
			formatFloat(e.Mileage),
			formatFloat(e.StablingPos),
			formatFloat(e.Score),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEvaluationsCSV writes the rule evaluation of each vehicle. Vehicles
// without alerts show the "-" placeholder.
func WriteEvaluationsCSV(w io.Writer, evals []rules.Evaluation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "status", "alerts"}); err != nil {
		return err
	}
	for _, e := range evals {
		alerts := e.AlertString()
		if alerts == "" {
			alerts = rules.NoAlerts
		}
		if err := cw.Write([]string{e.Vehicle.ID, string(e.Status), alerts}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePredictionsCSV writes the degradation estimate of each vehicle.
func WritePredictionsCSV(w io.Writer, preds []prediction.VehiclePrediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "route", "mileage", "predicted_days", "status"}); err != nil {
		return err
	}
	for _, p := range preds {
		rec := []string{p.Vehicle.ID, p.Vehicle.Route, formatFloat(p.Vehicle.Mileage), strconv.FormatFloat(p.Days, 'f', 2, 64), string(p.Status)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
