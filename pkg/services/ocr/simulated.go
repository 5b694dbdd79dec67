// Package ocr defines the capability used when a document has no usable text
// layer. The only implementation here is a simulated recognizer that renders
// plausible report text; a real OCR engine can be swapped in behind
// TextRecognizer without touching recognition or classification.
package ocr

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

type TextRecognizer interface {
	RecognizeText(ctx context.Context, filename string, data []byte) (string, error)
}

var (
	firstNames = []string{"ARJUN", "PRIYA", "RAHUL", "ANITA", "VIKRAM", "MEERA", "SURESH", "KAVYA"}
	lastNames  = []string{"SHARMA", "IYER", "REDDY", "NAIR", "PATEL", "RAO", "GUPTA", "MENON"}
)

// Simulated derives a pseudo patient from the filename and size and renders
// one of two report layouts. The bytes are never decoded.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand

	Now func() time.Time
}

func NewSimulated(src rand.Source) *Simulated {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Simulated{rng: rand.New(src), Now: time.Now}
}

type patient struct {
	name   string
	age    int
	gender string
}

func derivePatient(filename string, size int) patient {
	h := fnv.New64a()
	_, _ = h.Write([]byte(filename))
	_, _ = fmt.Fprintf(h, ":%d", size)
	sum := h.Sum64()

	gender := "M"
	if sum&1 == 1 {
		gender = "F"
	}
	return patient{
		name:   firstNames[sum%uint64(len(firstNames))] + " " + lastNames[(sum>>8)%uint64(len(lastNames))],
		age:    25 + int((sum>>16)%50),
		gender: gender,
	}
}

func (s *Simulated) RecognizeText(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := derivePatient(filename, len(data))

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	date := now().Format("02-01-2006")

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data)%2 == 0 {
		return s.renderLipidPanel(p, date), nil
	}
	return s.renderComprehensivePanel(p, date), nil
}

func (s *Simulated) between(lo, hi float64, decimals int) string {
	v := lo + s.rng.Float64()*(hi-lo)
	return fmt.Sprintf("%.*f", decimals, v)
}

func header(p patient, date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ECOTOWN DIAGNOSTIC LABORATORY\n")
	fmt.Fprintf(&b, "Name: %s\n", p.name)
	fmt.Fprintf(&b, "Age/Gender: %d Y / %s\n", p.age, p.gender)
	fmt.Fprintf(&b, "Date: %s\n", date)
	return b.String()
}

func (s *Simulated) renderLipidPanel(p patient, date string) string {
	var b strings.Builder
	b.WriteString(header(p, date))
	b.WriteString("LIPID PROFILE\n")
	fmt.Fprintf(&b, "Total Cholesterol %s mg/dL\n", s.between(150, 260, 0))
	fmt.Fprintf(&b, "Triglycerides %s mg/dL\n", s.between(70, 220, 0))
	fmt.Fprintf(&b, "HDL Cholesterol %s mg/dL\n", s.between(30, 75, 0))
	fmt.Fprintf(&b, "LDL Cholesterol %s mg/dL\n", s.between(60, 170, 0))
	fmt.Fprintf(&b, "HbA1c %s %%\n", s.between(4.6, 7.2, 1))
	return b.String()
}

func (s *Simulated) renderComprehensivePanel(p patient, date string) string {
	var b strings.Builder
	b.WriteString(header(p, date))
	b.WriteString("COMPREHENSIVE HEALTH PANEL\n")
	fmt.Fprintf(&b, "Total Cholesterol: %s mg/dL\n", s.between(150, 260, 0))
	fmt.Fprintf(&b, "HDL Cholesterol: %s mg/dL\n", s.between(30, 75, 0))
	fmt.Fprintf(&b, "LDL Cholesterol: %s mg/dL\n", s.between(60, 170, 0))
	fmt.Fprintf(&b, "Vitamin D: %s ng/mL\n", s.between(12, 60, 1))
	fmt.Fprintf(&b, "Vitamin B12: %s pg/mL\n", s.between(180, 950, 0))
	fmt.Fprintf(&b, "Creatinine: %s mg/dL\n", s.between(0.6, 1.5, 2))
	fmt.Fprintf(&b, "HbA1c: %s %%\n", s.between(4.6, 7.2, 1))
	return b.String()
}
