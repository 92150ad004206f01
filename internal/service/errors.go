// Package service holds the application operations behind the HTTP handlers.
// Every error leaving this package is a *models.AppError.
package service

import (
	"errors"

	"lotusnews/internal/models"
	"lotusnews/internal/repository"
)

// storageError translates a repository error into the API taxonomy.
func storageError(err error, resource string, id any) error {
	var appErr *models.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case repository.IsNotFound(err):
		return models.NewNotFoundError(resource, id)
	case repository.IsDuplicate(err):
		return models.NewConflictError(resource + " already exists")
	default:
		return models.NewUnavailableError(err)
	}
}
