package handlers

import (
	"errors"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/middleware"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto the API error format.
func respondError(c *gin.Context, err error) {
	var (
		conflict   *services.StateConflictError
		validation *services.ValidationError
		notFound   *services.NotFoundError
		dependency *services.DependencyError
	)
	switch {
	case errors.As(err, &conflict):
		response.Error(c, response.NewStateConflict(conflict.Error(), conflict.Current))
	case errors.As(err, &validation):
		response.Error(c, response.NewValidation(validation.Message, validation.Fields))
	case errors.As(err, &notFound):
		response.Error(c, response.NewNotFound(notFound.Error()))
	case errors.As(err, &dependency):
		response.Error(c, response.NewServiceUnavailable(dependency.Dependency+" unavailable"))
	default:
		response.Error(c, err)
	}
}

func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		UserID:   middleware.GetUserID(c),
		Username: middleware.GetUsername(c),
		Role:     middleware.GetRole(c),
	}
}
