package middleware

import "github.com/apresmonbac/orientation/internal/utils"

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}
