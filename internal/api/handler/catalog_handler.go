package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

// CatalogHandler serves catalog reads and routes claim attempts to the
// coordinator.
type CatalogHandler struct {
	catalog ports.CatalogService
	claims  ports.ClaimCoordinator
}

func NewCatalogHandler(catalog ports.CatalogService, claims ports.ClaimCoordinator) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, claims: claims}
}

// List handles GET /products.
//
// @Summary      List or search catalog items
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        search      query     string  false  "Case-insensitive substring match on name"
// @Param        sort_by     query     string  false  "name | price | stock"
// @Param        sort_order  query     string  false  "asc | desc"
// @Success      200         {array}   itemResponse
// @Failure      400         {object}  map[string]string
// @Failure      401         {object}  map[string]string
// @Router       /products [get]
func (h *CatalogHandler) List(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	var q listItemsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items, err := h.catalog.ListItems(c.Request().Context(), toListFilter(q))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toItemResponses(items))
}

// Get handles GET /products/:id.
//
// @Summary      Get a single catalog item
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	itemID, err := parseItemID(c)
	if err != nil {
		return err
	}

	item, err := h.catalog.GetItem(c.Request().Context(), itemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Select handles POST /products/:id/select, the claim/release toggle.
//
// @Summary      Claim an item, or release it when already held by the caller
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /products/{id}/select [post]
func (h *CatalogHandler) Select(c echo.Context) error {
	identity, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	itemID, err := parseItemID(c)
	if err != nil {
		return err
	}

	item, err := h.claims.AttemptClaim(c.Request().Context(), itemID, identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

// parseItemID treats a non-numeric id the same as an unknown one.
func parseItemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.ErrItemNotFound
	}
	return id, nil
}
