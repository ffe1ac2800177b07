package peserta

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
	// MissingFields maps field name to a human label; null labels are dropped.
	MissingFields  map[string]string
	DuplicateField string
	DuplicateValue string
	DuplicateLomba string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("participant backend: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("participant backend: status %d", e.StatusCode)
}

type apiErrorBody struct {
	Message        string             `json:"message"`
	Errors         []string           `json:"errors"`
	MissingFields  map[string]*string `json:"missingFields"`
	DuplicateField string             `json:"duplicateField"`
	DuplicateValue string             `json:"duplicateValue"`
	DuplicateLomba string             `json:"duplicateLomba"`
}

// decodeAPIError reads resp into an *APIError. An unreadable body still
// yields an APIError carrying the status code.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body apiErrorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err != nil {
		return apiErr
	}
	apiErr.Message = body.Message
	apiErr.Errors = body.Errors
	apiErr.DuplicateField = body.DuplicateField
	apiErr.DuplicateValue = body.DuplicateValue
	apiErr.DuplicateLomba = body.DuplicateLomba
	for field, label := range body.MissingFields {
		if label == nil {
			continue
		}
		if apiErr.MissingFields == nil {
			apiErr.MissingFields = map[string]string{}
		}
		apiErr.MissingFields[field] = *label
	}
	return apiErr
}

// Describe turns the error into the message shown next to competitionName
// in a registration summary. The first matching rule wins.
func (e *APIError) Describe(competitionName string) string {
	switch {
	case len(e.Errors) > 0:
		return "Validasi gagal: " + strings.Join(e.Errors, ", ")
	case len(e.MissingFields) > 0:
		fields := make([]string, 0, len(e.MissingFields))
		for f := range e.MissingFields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		labels := make([]string, 0, len(fields))
		for _, f := range fields {
			labels = append(labels, e.MissingFields[f])
		}
		return "Field yang kurang: " + strings.Join(labels, ", ")
	case e.DuplicateField == "nama":
		return fmt.Sprintf("%s. Nama %q sudah terdaftar untuk lomba %q. Silakan pilih lomba lain atau gunakan usia yang berbeda.",
			strings.TrimRight(e.Message, "."), e.DuplicateValue, e.DuplicateLomba)
	case e.DuplicateField == "email":
		return fmt.Sprintf("Email %q sudah terdaftar sebelumnya.", e.DuplicateValue)
	case e.Message != "":
		return e.Message
	case e.StatusCode == http.StatusBadRequest:
		return "Data tidak valid untuk lomba " + competitionName
	case e.StatusCode == http.StatusConflict:
		return "Data sudah ada untuk lomba " + competitionName
	case e.StatusCode >= 500:
		return fmt.Sprintf("Server error untuk lomba %s. Silakan coba lagi nanti.", competitionName)
	default:
		return fmt.Sprintf("Error %d: %s untuk lomba %s", e.StatusCode, http.StatusText(e.StatusCode), competitionName)
	}
}
