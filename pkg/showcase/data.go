package showcase

import (
	"math"
	"math/rand"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// Employees is the sample table shown in the data section.
func Employees() model.Table {
	return model.Table{
		Columns: []string{"이름", "나이", "직급", "급여"},
		Rows: [][]any{
			{"김철수", 25, "사원", 30000},
			{"이영희", 30, "대리", 45000},
			{"박민준", 28, "사원", 35000},
			{"최지은", 26, "과장", 55000},
			{"정수현", 32, "부장", 70000},
		},
	}
}

// randomChart fills rows × len(series) points with normally distributed
// values rounded to two decimals.
func randomChart(rng *rand.Rand, kind model.ChartType, rows int, series ...string) model.Chart {
	points := make([][]float64, rows)
	for i := range points {
		row := make([]float64, len(series))
		for j := range row {
			row[j] = math.Round(rng.NormFloat64()*100) / 100
		}
		points[i] = row
	}
	return model.Chart{Type: kind, Series: series, Points: points}
}
