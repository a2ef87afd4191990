// Package problem renders record-layer errors as 3GPP ProblemDetails
// (TS 29.571, RFC 7807 compatible).
package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/model"
)

// ContentType is the media type of a serialized problem document.
const ContentType = "application/problem+json"

// Cause is the application error cause carried in ProblemDetails.cause.
type Cause string

const (
	CauseInvalidMsgFormat     Cause = "INVALID_MSG_FORMAT"
	CauseMandatoryIEMissing   Cause = "MANDATORY_IE_MISSING"
	CauseMandatoryIEIncorrect Cause = "MANDATORY_IE_INCORRECT"
	CauseOptionalIEIncorrect  Cause = "OPTIONAL_IE_INCORRECT"
	CauseSystemFailure        Cause = "SYSTEM_FAILURE"
)

// InvalidParam names one offending attribute as a JSON pointer into the request body.
type InvalidParam struct {
	Param  string `json:"param"`
	Reason string `json:"reason,omitempty"`
}

// Details is a ProblemDetails document.
type Details struct {
	Type          string         `json:"type,omitempty"`
	Title         string         `json:"title,omitempty"`
	Status        int            `json:"status,omitempty"`
	Detail        string         `json:"detail,omitempty"`
	Instance      string         `json:"instance,omitempty"`
	Cause         Cause          `json:"cause,omitempty"`
	InvalidParams []InvalidParam `json:"invalidParams,omitempty"`
}

// FromError classifies err. Nil yields the zero Details.
func FromError(err error) Details {
	if err == nil {
		return Details{}
	}

	var se *model.SyntaxError
	if errors.As(err, &se) {
		return Details{
			Title:  "Malformed request syntax",
			Status: http.StatusBadRequest,
			Detail: se.Error(),
			Cause:  CauseInvalidMsgFormat,
		}
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		d := Details{
			Title:  "Invalid request body",
			Status: http.StatusBadRequest,
			Detail: ve.Error(),
			Cause:  causeFor(ve),
			InvalidParams: []InvalidParam{{
				Param:  Pointer(ve.Path),
				Reason: string(ve.Reason),
			}},
		}
		return d
	}

	return Details{
		Title:  "Internal server error",
		Status: http.StatusInternalServerError,
		Detail: err.Error(),
		Cause:  CauseSystemFailure,
	}
}

func causeFor(ve *model.ValidationError) Cause {
	switch {
	case ve.Reason == model.ReasonMissing:
		return CauseMandatoryIEMissing
	case ve.Optional:
		return CauseOptionalIEIncorrect
	default:
		return CauseMandatoryIEIncorrect
	}
}

// Pointer converts a field path such as "consumptionReportingUnits[2].duration"
// into the JSON pointer "/consumptionReportingUnits/2/duration". The root path
// maps to "".
func Pointer(path string) string {
	if path == "" {
		return ""
	}
	var b strings.Builder
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			b.WriteByte('/')
			b.WriteString(jsonpointer.Escape(name))
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				break
			}
			if _, err := strconv.Atoi(idx); err == nil {
				b.WriteByte('/')
				b.WriteString(idx)
			}
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return b.String()
}

// Write serializes the problem derived from err to w. The request path, when
// r is non-nil, becomes the problem instance.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	d := FromError(err)
	if d.Status == 0 {
		// nil err: still answer with a well-formed problem.
		d = Details{Title: "Internal server error", Status: http.StatusInternalServerError, Cause: CauseSystemFailure}
	}
	if r != nil {
		d.Instance = r.URL.EscapedPath()
	}

	logger := log.WithComponent("problem")
	if r != nil {
		logger = log.WithContext(r.Context(), logger)
		if rid := log.RequestIDFromContext(r.Context()); rid != "" {
			w.Header().Set("X-Request-ID", rid)
		}
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(d.Status)
	if encErr := json.NewEncoder(w).Encode(d); encErr != nil {
		logger.Error().
			Err(encErr).
			Int("status", d.Status).
			Str("cause", string(d.Cause)).
			Msg("failed to encode problem response")
	}
}
