package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-attendance-dashboard/pkg/errors"
)

// MessageSuccess is the message attached to every successful envelope.
const MessageSuccess = "success"

// Envelope represents the common response contract shared by every JSON endpoint.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// TypedEnvelope is the decoding counterpart of Envelope for a known payload type.
type TypedEnvelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Success wraps data in a success envelope with the given code.
func Success(code int, data interface{}) Envelope {
	return Envelope{Code: code, Message: MessageSuccess, Data: data}
}

// Failure builds an error envelope.
func Failure(code int, message string) Envelope {
	return Envelope{Code: code, Message: message}
}

// FromError converts err into an error envelope.
func FromError(err error) Envelope {
	appErr := appErrors.FromError(err)
	return Failure(appErrors.Status(appErr), appErr.Message)
}

// HTTPStatus maps the envelope code onto the status of the HTTP response.
func (e Envelope) HTTPStatus() int {
	switch {
	case e.Code == http.StatusNoContent:
		return http.StatusNoContent
	case e.Code == http.StatusCreated:
		return http.StatusCreated
	case e.Code >= 400:
		return e.Code
	default:
		return http.StatusOK
	}
}

// JSON sends the envelope through gin.
func JSON(c *gin.Context, env Envelope) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	if env.Code == http.StatusNoContent {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(env.HTTPStatus(), env)
}

// OK responds with HTTP 200 and data.
func OK(c *gin.Context, data interface{}) {
	JSON(c, Success(http.StatusOK, data))
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	JSON(c, FromError(err))
}

// Write renders the envelope onto a plain http.ResponseWriter.
func Write(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Cache-Control", "no-store")
	if env.Code == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.HTTPStatus())
	_ = json.NewEncoder(w).Encode(env)
}
