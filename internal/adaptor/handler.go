package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"airport-ops/internal/policy"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/apperror"
	"airport-ops/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Flight       *FlightHandler
	Passenger    *PassengerHandler
	Ticket       *TicketHandler
	BoardingPass *BoardingPassHandler
	Visa         *VisaHandler
	Clearance    *ClearanceHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Flight:       NewFlightHandler(service.Flight, log),
		Passenger:    NewPassengerHandler(service.Passenger, log),
		Ticket:       NewTicketHandler(service.Ticket, log),
		BoardingPass: NewBoardingPassHandler(service.BoardingPass, log),
		Visa:         NewVisaHandler(service.Visa, log),
		Clearance:    NewClearanceHandler(service.Clearance, log),
	}
}

// decodeJSON reads the body into dst and validates it. It writes the 400
// response itself and reports false when the request cannot proceed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (policy.Actor, bool) {
	actor, ok := policy.ActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return actor, ok
}

// handleServiceError maps an error kind to its HTTP status. Unexpected errors
// are logged and never leak their text to the client.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	msg := apperror.Message(err)

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		utils.ResponseNotFound(w, msg)
	case errors.Is(err, apperror.ErrAlreadyExists):
		utils.ResponseConflict(w, msg)
	case apperror.IsDenied(err):
		utils.ResponseForbidden(w, msg)
	case errors.Is(err, apperror.ErrNotPermitted):
		utils.ResponseUnprocessable(w, msg)
	case errors.Is(err, apperror.ErrValidation):
		utils.ResponseBadRequest(w, msg, nil)
	default:
		log.Error("Unhandled service error", zap.String("operation", operation), zap.Error(err))
		utils.ResponseInternalError(w, "Failed to "+operation)
	}
}
