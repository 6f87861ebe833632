package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/pkg/errors"
)

//////////////////////////////////////////////////////////////////
//-------------------------- CONSTS ---------------------------
//////////////////////////////////////////////////////////////////

const (
	// TokenHeader is key string for "X-CSRF-TOKEN" header
	TokenHeader = "X-Csrf-Token"

	// LocationHeader is key string for "Location" header
	LocationHeader = "Location"

	// ContentDispositionHeader is key string for "Content-Disposition" header
	ContentDispositionHeader = "Content-Disposition"
)

const (
	// ContentTypeJSON is key string for content type header "application/json"
	ContentTypeJSON = "application/json"

	// ContentTypeHTML is key string for content type header "text/html; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

const (
	invalidJSONTxt = "Invalid json"
	serverErrTxt   = "Server error, please try again later"
)

//////////////////////////////////////////////////////////////////
//---------------------- CUSTOM ERRORS ------------------------
//////////////////////////////////////////////////////////////////

var (
	// ErrBodyRequired is used for when a post request does not contain a body
	ErrBodyRequired = errors.New("server: request must have body")

	// ErrInvalidJSON is used when there is an error unmarshalling a request body
	ErrInvalidJSON = errors.New("server: invalid json")
)

//////////////////////////////////////////////////////////////////
//------------------------- STRUCTS ----------------------------
//////////////////////////////////////////////////////////////////

// HTTPResponseConfig is used to give default status and response
// values of an http request when encoding the payload fails
type HTTPResponseConfig struct {
	HTTPStatus   *int
	HTTPResponse []byte
}

// ErrorResponse is the payload sent for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

//////////////////////////////////////////////////////////////////
//------------------------- FUNCTIONS --------------------------
//////////////////////////////////////////////////////////////////

// SetHTTPResponseDefaults is util function to set default values for passed
// config if values for nil
func SetHTTPResponseDefaults(config *HTTPResponseConfig, defaultStatus int, defaultResponse []byte) {
	if config.HTTPStatus == nil {
		config.HTTPStatus = &defaultStatus
	}
	if config.HTTPResponse == nil {
		config.HTTPResponse = defaultResponse
	}
}

// SetToken is wrapper function for setting csrf token header
func SetToken(w http.ResponseWriter, r *http.Request) {
	if token := csrf.Token(r); token != "" {
		w.Header().Set(TokenHeader, token)
	}
}

// SendPayload is a wrapper for converting the payload parameter into json and
// sending to the client with passed status
func SendPayload(w http.ResponseWriter, status int, payload any, errResp HTTPResponseConfig) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	SetHTTPResponseDefaults(&errResp, http.StatusInternalServerError, []byte(invalidJSONTxt))
	jsonString, err := json.Marshal(payload)

	if err != nil {
		w.WriteHeader(*errResp.HTTPStatus)
		w.Write(errResp.HTTPResponse)
		return err
	}

	w.WriteHeader(status)
	w.Write(jsonString)
	return nil
}

// SendError sends passed error message as an ErrorResponse
func SendError(w http.ResponseWriter, status int, msg string) {
	SendPayload(w, status, ErrorResponse{Error: msg}, HTTPResponseConfig{})
}

// CheckBodyAndDecode decodes the json body of req into form
//
// A missing body returns ErrBodyRequired and a body that does not
// decode returns ErrInvalidJSON
func CheckBodyAndDecode(req *http.Request, form any) error {
	if req.Body == nil || req.Body == http.NoBody {
		return ErrBodyRequired
	}

	if err := json.NewDecoder(req.Body).Decode(form); err != nil {
		if err == io.EOF {
			return ErrBodyRequired
		}

		return errors.Wrap(ErrInvalidJSON, err.Error())
	}

	return nil
}
