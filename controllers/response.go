package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"veggie-shop/models"
	"veggie-shop/services"
	"veggie-shop/storage"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func bindingFields(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		// drop the root struct name from "PlaceOrderRequest.paymentMethod"
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}

		switch fe.Tag() {
		case "required":
			fields[path] = "This field is required"
		case "min":
			fields[path] = fmt.Sprintf("Must be at least %s", fe.Param())
		default:
			fields[path] = fmt.Sprintf("Failed %s validation", fe.Tag())
		}
	}
	return fields
}

// respondError maps service and storage errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		bindErrs      validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Fields:  validationErr.Fields,
		})
	case errors.As(err, &bindErrs):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Fields:  bindingFields(bindErrs),
		})
	case errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request",
			Error:   err.Error(),
		})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: "Not found",
		})
	case errors.Is(err, storage.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Cart is empty",
		})
	case errors.Is(err, storage.ErrInsufficientStock):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Success: false,
			Message: "Insufficient stock for one or more items",
		})
	case errors.Is(err, services.ErrUploadsDisabled):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Message: "Image uploads are not available",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Message: "Unauthorized",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Success: false,
			Message: "Forbidden",
		})
	default:
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Internal server error",
		})
	}
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// bindError keeps validator failures for per-field reporting and turns
// anything else the binder returns (malformed JSON, bad numbers) into a 400.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return err
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// currentUser rebuilds the caller from the session claims set by the auth
// middleware.
func currentUser(c *gin.Context) *models.User {
	return &models.User{
		ID:    c.GetString("user_id"),
		Email: c.GetString("user_email"),
		Role:  c.GetString("user_role"),
	}
}
