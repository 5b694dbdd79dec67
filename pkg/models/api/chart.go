package api

type ChartPoint struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

type ChartSeries struct {
	Name           string         `json:"name"`
	Data           []ChartPoint   `json:"data"`
	Color          string         `json:"color"`
	ReferenceRange ReferenceRange `json:"referenceRange"`
	Unit           string         `json:"unit"`
}

type ChartGroup struct {
	Title      string        `json:"title"`
	Biomarkers []ChartSeries `json:"biomarkers"`
}
