package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pageza/coffeeshop/backend/internal/middleware"
	"github.com/pageza/coffeeshop/backend/internal/model"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/pageza/coffeeshop/backend/internal/types"
	"github.com/sirupsen/logrus"
)

// Permissions required by the drink routes.
const (
	PermGetDrinks       = "get:drinks"
	PermGetDrinksDetail = "get:drinks-detail"
	PermPostDrinks      = "post:drinks"
	PermPatchDrinks     = "patch:drinks"
	PermDeleteDrinks    = "delete:drinks"
)

// DrinkHandler serves the /drinks endpoints.
type DrinkHandler struct {
	drinks service.IDrinkService
	log    *logrus.Logger
}

// NewDrinkHandler creates a handler backed by the drink service.
func NewDrinkHandler(drinks service.IDrinkService, log *logrus.Logger) *DrinkHandler {
	return &DrinkHandler{drinks: drinks, log: log}
}

// RegisterRoutes mounts the drink routes on router. writeMiddleware runs
// after authorization on the mutating routes.
func (h *DrinkHandler) RegisterRoutes(router gin.IRouter, validator middleware.TokenValidator, writeMiddleware ...gin.HandlerFunc) {
	guard := func(permission string, write bool, handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{middleware.RequiresAuth(validator, permission)}
		if write {
			chain = append(chain, writeMiddleware...)
		}
		return append(chain, handler)
	}

	router.GET("/drinks", guard(PermGetDrinks, false, h.ListDrinks)...)
	router.GET("/drinks-detail", guard(PermGetDrinksDetail, false, h.ListDrinkDetails)...)
	router.POST("/drinks", guard(PermPostDrinks, true, h.CreateDrink)...)
	router.PATCH("/drinks/:id", guard(PermPatchDrinks, true, h.UpdateDrink)...)
	router.DELETE("/drinks/:id", guard(PermDeleteDrinks, true, h.DeleteDrink)...)
}

// ListDrinks returns every drink in the short recipe view.
func (h *DrinkHandler) ListDrinks(c *gin.Context) {
	h.list(c, model.ViewShort)
}

// ListDrinkDetails returns every drink with full recipes.
func (h *DrinkHandler) ListDrinkDetails(c *gin.Context) {
	h.list(c, model.ViewLong)
}

func (h *DrinkHandler) list(c *gin.Context, view model.View) {
	drinks, err := h.drinks.List(c.Request.Context(), view)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "drinks": drinks})
}

// CreateDrink stores a new drink and returns it in the long view.
func (h *DrinkHandler) CreateDrink(c *gin.Context) {
	var req types.CreateDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, unprocessable(err))
		return
	}

	drink, err := h.drinks.Create(c.Request.Context(), req.Title, req.Recipe)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "drinks": drink})
}

// UpdateDrink patches the title or recipe of an existing drink.
func (h *DrinkHandler) UpdateDrink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, service.ErrDrinkNotFound)
		return
	}

	var req types.UpdateDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, unprocessable(err))
		return
	}

	update := service.DrinkUpdate{Title: req.Title, Recipe: req.Recipe}
	if err := h.drinks.Update(c.Request.Context(), id, update); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": id})
}

// DeleteDrink removes a drink and echoes its id.
func (h *DrinkHandler) DeleteDrink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, service.ErrDrinkNotFound)
		return
	}

	deleted, err := h.drinks.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "delete": deleted})
}

// parseID reads the :id path parameter. Non-numeric and zero ids cannot
// name a stored drink.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
