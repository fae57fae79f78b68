package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all short link routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten",
		Method:        http.MethodPost,
		Path:          "/api/v1/shorten",
		Summary:       "Create short URL",
		Description:   "Stores a short link under a custom alias, or under a generated code using the token or hash strategy.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, urlHandler.ShortenURL)

	huma.Register(api, huma.Operation{
		OperationID:   "retrieve",
		Method:        http.MethodPost,
		Path:          "/api/v1/retrieve",
		Summary:       "Retrieve original URL",
		Description:   "Looks up the original URL stored under a short identifier.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, urlHandler.RetrieveURL)

	huma.Register(api, huma.Operation{
		OperationID: "check-alias",
		Method:      http.MethodGet,
		Path:        "/api/v1/aliases/{alias}",
		Summary:     "Check alias availability",
		Description: "Reports whether a custom alias is well-formed and unused. Shortening remains the authoritative check.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusBadRequest},
	}, urlHandler.CheckAlias)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{code}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the original URL associated with the short identifier.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusTemporaryRedirect,
		Errors:        []int{http.StatusNotFound},
	}, urlHandler.RedirectToURL)
}
