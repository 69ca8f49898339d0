package google

import (
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/agentstation/contactsync/pkg/errors"
)

const providerName = "google"

// wrapAPI converts a googleapi error into an errors.APIError.
func wrapAPI(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return errors.WrapAPI(providerName, gerr.Code, err)
	}
	return errors.WrapAPI(providerName, 0, err)
}

// statusCode returns the HTTP status carried by err, or -1.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code != 0 {
		return gerr.Code
	}
	return -1
}

// rpcStatus maps google.rpc.Code values to HTTP status codes.
var rpcStatus = map[int64]int{
	0:  http.StatusOK,
	1:  499,
	2:  http.StatusInternalServerError,
	3:  http.StatusBadRequest,
	4:  http.StatusGatewayTimeout,
	5:  http.StatusNotFound,
	6:  http.StatusConflict,
	7:  http.StatusForbidden,
	8:  http.StatusTooManyRequests,
	9:  http.StatusBadRequest,
	10: http.StatusConflict,
	11: http.StatusBadRequest,
	12: http.StatusNotImplemented,
	13: http.StatusInternalServerError,
	14: http.StatusServiceUnavailable,
	15: http.StatusInternalServerError,
	16: http.StatusUnauthorized,
}

func httpStatusFromRPC(code int64) int {
	if status, ok := rpcStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
