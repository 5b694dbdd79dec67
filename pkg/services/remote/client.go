// Package remote delegates extraction to an external service that accepts a
// multipart upload and answers with recognized report fields.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

const DefaultTimeout = 60 * time.Second

// maxErrorBody bounds how much of a failed response is read for the detail.
const maxErrorBody = 64 << 10

// StatusClassifier fills in statuses the service did not supply or supplied
// in an unknown form.
type StatusClassifier interface {
	Classify(name string, value float64) domain.Status
}

type Client struct {
	url        string
	httpClient *http.Client
	classifier StatusClassifier
}

func NewClient(url string, timeout time.Duration, classifier StatusClassifier) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		classifier: classifier,
	}
}

// Extract uploads the document under the form field "file". Any transport
// failure or non-2xx answer is returned as a network error; nothing is
// retried.
func (c *Client) Extract(ctx context.Context, filename string, data []byte) (domain.RecognizedReport, error) {
	logger := zerolog.Ctx(ctx)

	body, contentType, err := multipartBody(filename, data)
	if err != nil {
		return domain.RecognizedReport{}, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return domain.RecognizedReport{}, domain.ConfigError("invalid extraction service url", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("url", c.url).Msg("extraction service request failed")
		return domain.RecognizedReport{}, domain.NetworkError("request failed", err)
	}
	defer resp.Body.Close()

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("extraction service responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := errorDetail(resp)
		logger.Error().Int("status", resp.StatusCode).Str("detail", detail).Msg("extraction service returned an error")
		return domain.RecognizedReport{}, domain.NetworkError(detail, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Error().Err(err).Msg("failed to decode extraction service response")
		return domain.RecognizedReport{}, domain.NetworkError("malformed response", err)
	}
	return payload.Report(c.classifier), nil
}

func multipartBody(filename string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func errorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return resp.Status
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if len(body.Detail) > 0 {
			var s string
			if json.Unmarshal(body.Detail, &s) == nil {
				return s
			}
			return string(body.Detail)
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// Payload is the success body of the extraction service.
type Payload struct {
	PatientInfo       PatientPayload              `json:"patientInfo"`
	LegacyPatientInfo *PatientPayload             `json:"patient_info"`
	Biomarkers        map[string]BiomarkerPayload `json:"biomarkers"`
}

type PatientPayload struct {
	Name       string     `json:"name"`
	Age        flexNumber `json:"age"`
	Gender     string     `json:"gender"`
	ID         string     `json:"id"`
	ReportDate string     `json:"reportDate"`
}

type BiomarkerPayload struct {
	Value          flexNumber      `json:"value"`
	Unit           string          `json:"unit"`
	Status         string          `json:"status"`
	ReferenceRange json.RawMessage `json:"referenceRange"`
}

// Report validates the payload into a recognized report. Non-numeric values
// become gaps and unknown statuses are reclassified with classifier.
func (p Payload) Report(classifier StatusClassifier) domain.RecognizedReport {
	info := p.PatientInfo
	if p.LegacyPatientInfo != nil && info == (PatientPayload{}) {
		info = *p.LegacyPatientInfo
	}

	report := domain.RecognizedReport{
		PatientInfo: domain.PatientInfo{
			Name:       strings.TrimSpace(info.Name),
			Gender:     domain.ParseGender(info.Gender),
			ID:         info.ID,
			ReportDate: info.ReportDate,
		},
		Biomarkers: make(map[string]domain.RecognizedField, len(p.Biomarkers)),
		Method:     domain.MethodRemote,
	}
	if info.Age.Valid {
		report.PatientInfo.Age = int(info.Age.Value)
	}

	for name, b := range p.Biomarkers {
		field := domain.RecognizedField{Unit: b.Unit, Status: domain.StatusNormal}
		if b.Value.Valid {
			v := b.Value.Value
			field.Value = &v
			status, err := domain.ParseStatus(b.Status)
			if err != nil && classifier != nil {
				status = classifier.Classify(name, v)
			} else if err != nil {
				status = domain.StatusNormal
			}
			field.Status = status
		}
		field.RangeText, field.ReferenceRange = parseRange(b.ReferenceRange)
		report.Biomarkers[name] = field
	}
	return report
}

// parseRange accepts either "min - max" or {"min": .., "max": .., "optimal": ..}.
func parseRange(raw json.RawMessage) (string, *domain.ReferenceRange) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var text string
	if json.Unmarshal(raw, &text) == nil {
		lo, hi, ok := strings.Cut(text, "-")
		if !ok {
			return text, nil
		}
		low, errLo := strconv.ParseFloat(strings.Trim(lo, "( "), 64)
		high, errHi := strconv.ParseFloat(strings.Trim(hi, ") "), 64)
		if errLo != nil || errHi != nil || !finite(low) || !finite(high) || low > high {
			return text, nil
		}
		return text, &domain.ReferenceRange{Min: low, Max: high}
	}
	var obj struct {
		Min     *float64 `json:"min"`
		Max     *float64 `json:"max"`
		Optimal *float64 `json:"optimal"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Min != nil && obj.Max != nil {
		return fmt.Sprintf("%g - %g", *obj.Min, *obj.Max), &domain.ReferenceRange{Min: *obj.Min, Max: *obj.Max, Optimal: obj.Optimal}
	}
	return "", nil
}

// flexNumber decodes a JSON number or numeric string. Anything else leaves it
// invalid.
type flexNumber struct {
	Value float64
	Valid bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = flexNumber{}
	if string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.Value, n.Valid = f, true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && finite(f) {
		n.Value, n.Valid = f, true
	}
	return nil
}

// finite rejects the NaN and Inf spellings strconv accepts; they have no
// JSON encoding and would break the response.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
