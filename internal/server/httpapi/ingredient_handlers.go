package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/errs"
	"github.com/freshkeep/freshkeep/internal/model"
)

// expiryDateFormat is the wire format of ingredient expiry dates.
const expiryDateFormat = "2006-01-02"

type ingredientRequest struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	ExpiresOn string  `json:"expiresOn"` // YYYY-MM-DD
}

type ingredientResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	ExpiresOn string  `json:"expiresOn"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toIngredientResponse(ing *model.UserIngredient) ingredientResponse {
	return ingredientResponse{
		ID:        ing.ID.String(),
		Name:      ing.Name,
		Quantity:  ing.Quantity,
		Unit:      ing.Unit,
		ExpiresOn: ing.ExpiresOn.Format(expiryDateFormat),
		CreatedAt: ing.CreatedAt.Format(time.RFC3339),
		UpdatedAt: ing.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *ingredientRequest) parse() (name string, quantity float64, unit string, expiresOn time.Time, err error) {
	expiresOn, err = time.Parse(expiryDateFormat, r.ExpiresOn)
	if err != nil {
		return "", 0, "", time.Time{}, errors.New("expiresOn must be YYYY-MM-DD")
	}
	return r.Name, r.Quantity, r.Unit, expiresOn, nil
}

// handleCreateIngredient stores a new ingredient for the authenticated user.
func (s *Server) handleCreateIngredient(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	var req ingredientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}
	name, quantity, unit, expiresOn, err := req.parse()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ing, err := s.ingredients.Create(c.Request().Context(), userID, name, quantity, unit, expiresOn)
	if err != nil {
		if isValidation(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.log.Error("create ingredient failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "create failed")
	}
	return c.JSON(http.StatusCreated, toIngredientResponse(ing))
}

// handleUpdateIngredient replaces mutable fields of an ingredient.
func (s *Server) handleUpdateIngredient(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}
	var req ingredientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request body")
	}
	name, quantity, unit, expiresOn, err := req.parse()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ing, err := s.ingredients.Update(c.Request().Context(), userID, id, name, quantity, unit, expiresOn)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		case isValidation(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			s.log.Error("update ingredient failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
		}
	}
	return c.JSON(http.StatusOK, toIngredientResponse(ing))
}

// handleDeleteIngredient removes an ingredient owned by the user.
func (s *Server) handleDeleteIngredient(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}
	if err := s.ingredients.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		s.log.Error("delete ingredient failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// handleGetIngredient returns a single ingredient owned by the user.
func (s *Server) handleGetIngredient(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad id")
	}
	ing, err := s.ingredients.Get(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		s.log.Error("get ingredient failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "get failed")
	}
	return c.JSON(http.StatusOK, toIngredientResponse(ing))
}

// handleListIngredients returns the user's ingredients, soonest expiry first.
func (s *Server) handleListIngredients(c echo.Context) error {
	userID, ok := authedUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no auth")
	}
	list, err := s.ingredients.List(c.Request().Context(), userID)
	if err != nil {
		s.log.Error("list ingredients failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "list failed")
	}
	out := make([]ingredientResponse, 0, len(list))
	for i := range list {
		out = append(out, toIngredientResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// isValidation reports whether a service error is an input validation error.
func isValidation(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "validation:")
}
