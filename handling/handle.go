package handling

import (
	"errors"
	"frietkot_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

const genericErrorMessage = "Something went wrong. Please try again later."

// Classify maps an error onto an HTTP status and a message that may be shown to the user.
func Classify(err error) (int, string) {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "Invalid input: " + ve.Error() + "."
	}

	var re *lib.RequestError
	if errors.As(err, &re) {
		switch {
		case errors.Is(re.Kind, lib.ErrNotFound):
			return http.StatusNotFound, re.Message
		default:
			// Validation, conflict and image errors are all the caller's to fix.
			return http.StatusBadRequest, re.Message
		}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusBadRequest, "The request is too large."
	}

	switch {
	case errors.Is(err, lib.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, lib.ErrInvalidInput), errors.Is(err, lib.ErrInvalidImage):
		return http.StatusBadRequest, "Invalid input."
	case errors.Is(err, lib.ErrConflict), errors.Is(err, lib.ErrForeignKey):
		return http.StatusBadRequest, "The change conflicts with existing data."
	}

	return http.StatusInternalServerError, genericErrorMessage
}

// HandleError writes err as a gecho JSON envelope. Server errors are logged with msg.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	status, message := Classify(err)

	switch status {
	case http.StatusBadRequest:
		var ve *lib.ValidationError
		if errors.As(err, &ve) {
			gecho.BadRequest(w, gecho.WithMessage(message), gecho.WithData(ve.Errors), gecho.Send())
			return
		}
		gecho.BadRequest(w, gecho.WithMessage(message), gecho.Send())
		return
	case http.StatusNotFound:
		gecho.NotFound(w, gecho.WithMessage(message), gecho.Send())
		return
	}

	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
	gecho.InternalServerError(w, gecho.WithMessage(message), gecho.Send())
}
