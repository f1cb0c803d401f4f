package mock

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/response"
)

// Request is what a handler sees: the full URL for query extraction, the path
// parameters captured by the router and the decoded body.
//
// Body is json.RawMessage for JSON payloads, *multipart.Form for multipart
// payloads, the raw []byte for anything else and nil when there was no body.
type Request struct {
	Method string
	URL    *url.URL
	Params map[string]string
	Body   any
}

// Query returns the parsed query string.
func (r Request) Query() url.Values {
	if r.URL == nil {
		return url.Values{}
	}
	return r.URL.Query()
}

// Bind decodes a JSON body into dst and validates it.
func (r Request) Bind(dst any, validate *validator.Validate, message string) error {
	raw, ok := r.Body.(json.RawMessage)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "request body must be JSON")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, message)
	}
	if validate != nil {
		if err := validate.Struct(dst); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, message)
		}
	}
	return nil
}

// Result is a handler's output: a JSON envelope or, for exports, a format-tagged payload.
type Result struct {
	Envelope response.Envelope
	Export   *models.ExportContent
}

// HandlerFunc is a pure function over the mock database.
type HandlerFunc func(Request) Result

// Success wraps data in a success envelope.
func Success(code int, data any) Result {
	return Result{Envelope: response.Success(code, data)}
}

// Failure converts err into an error envelope.
func Failure(err error) Result {
	return Result{Envelope: response.FromError(err)}
}

// NoContent is the empty 204 envelope returned by deletes.
func NoContent() Result {
	return Result{Envelope: response.Envelope{Code: 204, Message: response.MessageSuccess}}
}

// pageParams reads page and page_size, falling back to the defaults on anything non-positive.
func pageParams(q url.Values) (int, int) {
	return positiveParam(q, "page", models.DefaultPage), positiveParam(q, "page_size", models.DefaultPageSize)
}

func positiveParam(q url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
