// Package recognize reads patient details and catalog biomarkers out of the
// plain text of a lab report.
package recognize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
)

const isoDate = "2006-01-02"

var (
	nameRe      = regexp.MustCompile(`\bName\s*:\s*([A-Z.]+(?: +[A-Z.]+)*)`)
	ageGenderRe = regexp.MustCompile(`Age\s*/\s*Gender\s*:\s*(\d+)\s*Y\s*/?\s*([MF])?`)
	dateRe      = regexp.MustCompile(`\bDate\s*:\s*([\d-]+)`)
	reportIDRe  = regexp.MustCompile(`(?i)(?:Report|Sample)\s*(?:ID|No\.?)\s*:\s*([A-Z0-9][A-Z0-9-]*)`)

	reportDateLayouts = []string{"02-01-2006", isoDate, "02-01-06"}
)

type biomarkerPattern struct {
	def catalog.Definition
	re  *regexp.Regexp
}

type Recognizer struct {
	patterns []biomarkerPattern

	Now func() time.Time
}

// NewRecognizer compiles a pattern for every catalog biomarker that has a
// recognition label.
func NewRecognizer(c *catalog.Catalog) (*Recognizer, error) {
	r := &Recognizer{Now: time.Now}
	for _, def := range c.Definitions() {
		if !def.Recognizable() {
			continue
		}
		re, err := compileBiomarkerPattern(def)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for %s: %w", def.Name, err)
		}
		r.patterns = append(r.patterns, biomarkerPattern{def: def, re: re})
	}
	return r, nil
}

// compileBiomarkerPattern matches "<label> [:] <number> <unit>" with an
// optional trailing "(min - max)".
func compileBiomarkerPattern(def catalog.Definition) (*regexp.Regexp, error) {
	expr := `(?i)\b(?:` + def.Label + `)\b\s*:?\s*(\d+(?:\.\d+)?)\s*` + regexp.QuoteMeta(def.Unit) +
		`(?:\s*\(?\s*(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*\)?)?`
	return regexp.Compile(expr)
}

// Recognize never fails. Fields that cannot be found are left empty and
// biomarkers without a value carry a nil Value with a Normal placeholder.
func (r *Recognizer) Recognize(ctx context.Context, text, filename string) domain.RecognizedReport {
	report := domain.RecognizedReport{
		PatientInfo: r.patientInfo(text),
		Biomarkers:  make(map[string]domain.RecognizedField, len(r.patterns)),
		RawText:     text,
	}

	for _, p := range r.patterns {
		report.Biomarkers[p.def.Name] = recognizeField(text, p)
	}

	zerolog.Ctx(ctx).Debug().
		Str("filename", filename).
		Str("report_id", report.PatientInfo.ID).
		Int("biomarkers", report.Present()).
		Msg("recognized report fields")
	return report
}

func recognizeField(text string, p biomarkerPattern) domain.RecognizedField {
	field := domain.RecognizedField{Unit: p.def.Unit, Status: domain.StatusNormal}

	for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
		if negated(text[:m[0]]) {
			continue
		}
		v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil {
			continue
		}
		field.Value = &v

		if m[4] >= 0 && m[6] >= 0 {
			lo, errLo := strconv.ParseFloat(text[m[4]:m[5]], 64)
			hi, errHi := strconv.ParseFloat(text[m[6]:m[7]], 64)
			if errLo == nil && errHi == nil && lo <= hi {
				field.RangeText = fmt.Sprintf("%s - %s", text[m[4]:m[5]], text[m[6]:m[7]])
				field.ReferenceRange = &domain.ReferenceRange{Min: lo, Max: hi}
			}
		}
		break
	}
	return field
}

// negated reports whether the text before a label ends in "Non-" or "Non ",
// so that "Non-HDL Cholesterol" does not feed HDL.
func negated(prefix string) bool {
	prefix = strings.ToLower(prefix)
	return strings.HasSuffix(prefix, "non-") || strings.HasSuffix(prefix, "non ")
}

func (r *Recognizer) patientInfo(text string) domain.PatientInfo {
	info := domain.PatientInfo{Gender: domain.GenderUnknown}

	if m := patientLabel(text, nameRe, "Patient"); m != nil {
		info.Name = trimTrailingLabel(text[m[2]:m[3]], text[m[3]:])
	}
	if m := ageGenderRe.FindStringSubmatch(text); m != nil {
		info.Age, _ = strconv.Atoi(m[1])
		info.Gender = domain.ParseGender(m[2])
	}
	if m := patientLabel(text, dateRe, "Report"); m != nil {
		info.ReportDate = normalizeDate(strings.Trim(text[m[2]:m[3]], "-"))
	}
	if m := reportIDRe.FindStringSubmatch(text); m != nil {
		info.ID = m[1]
	} else {
		info.ID = r.syntheticID()
	}
	return info
}

// patientLabel returns the submatch indexes of the first re match that
// belongs to the patient header. A match qualified by preferred wins
// outright; other title-case qualifiers such as "Doctor Name" or
// "Collection Date" are skipped.
func patientLabel(text string, re *regexp.Regexp, preferred string) []int {
	var fallback []int
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		q := qualifier(text[:m[0]])
		switch {
		case q == preferred:
			return m
		case isTitleWord(q):
			continue
		case fallback == nil:
			fallback = m
		}
	}
	return fallback
}

// qualifier is the word directly before a label on the same line.
func qualifier(before string) string {
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return ""
	}
	word := strings.TrimSuffix(fields[len(fields)-1], "'s")
	return strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) })
}

func isTitleWord(w string) bool {
	r := []rune(w)
	if len(r) < 2 || !unicode.IsUpper(r[0]) {
		return false
	}
	for _, c := range r[1:] {
		if !unicode.IsLower(c) {
			return false
		}
	}
	return true
}

// trimTrailingLabel drops the last token of name when it is the start of a
// following label, e.g. the "A" of "Age/Gender" in "Name: JOHN DOE Age/Gender".
func trimTrailingLabel(name, rest string) string {
	name = strings.TrimSpace(name)
	next, _, _ := strings.Cut(rest, " ")
	if next != "" && unicode.IsLower([]rune(next)[0]) {
		if i := strings.LastIndex(name, " "); i >= 0 {
			name = name[:i]
		} else {
			name = ""
		}
	}
	return strings.TrimSpace(name)
}

func normalizeDate(raw string) string {
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(isoDate)
		}
	}
	return raw
}

func (r *Recognizer) syntheticID() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return fmt.Sprintf("RPT-%06d", now().UnixMilli()%1_000_000)
}
