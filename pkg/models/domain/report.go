package domain

type ExtractionMethod string

const (
	// MethodPDFText is reported when the document carried a usable text layer.
	// The wire value matches what the dashboard has always consumed.
	MethodPDFText   ExtractionMethod = "pdfjs"
	MethodOCRNeeded ExtractionMethod = "ocr-needed"
	MethodOCR       ExtractionMethod = "ocr"
	MethodRemote    ExtractionMethod = "remote"
)

// ExtractionResult is the output of the text extraction stage. Failures are
// returned as errors, so a result is either text or a request for OCR.
type ExtractionResult struct {
	Text   string
	Method ExtractionMethod
	Pages  int
}

func (r ExtractionResult) NeedsOCR() bool {
	return r.Method == MethodOCRNeeded
}

// RecognizedField is one biomarker as read from a report. A nil Value means
// the report did not mention it.
type RecognizedField struct {
	Value          *float64
	Unit           string
	Status         Status
	RangeText      string
	ReferenceRange *ReferenceRange
}

func (f RecognizedField) Present() bool {
	return f.Value != nil
}

// RecognizedReport is the output of the field recognition stage.
type RecognizedReport struct {
	PatientInfo PatientInfo
	Biomarkers  map[string]RecognizedField
	RawText     string
	Method      ExtractionMethod
}

// Present returns the number of biomarkers with a value.
func (r RecognizedReport) Present() int {
	n := 0
	for _, f := range r.Biomarkers {
		if f.Present() {
			n++
		}
	}
	return n
}

// Observation is a new value to be merged into a biomarker history.
type Observation struct {
	Value          float64
	Unit           string
	Status         Status
	Date           string
	ReferenceRange *ReferenceRange
}
