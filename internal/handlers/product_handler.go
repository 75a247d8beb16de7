package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"catalog/internal/models"
	"catalog/internal/services"
	"catalog/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthMessage is the body returned by the health endpoint.
const HealthMessage = "API is up and running"

// ProductRequest is the body accepted by create and update. Price and stock
// are pointers so that an omitted field fails validation instead of reading as zero.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
}

func (r ProductRequest) toProduct() models.Product {
	return models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Stock:       *r.Stock,
	}
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	validate := validator.New()
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ProductHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the product routes. Fixed paths go before /:id.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchByName)
	productRoutes.Get("/low-stock", h.HandleLowStock)
	productRoutes.Get("/health", h.HandleHealth)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}

	product, found, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !found {
		return notFound(c, id)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	req, ok, err := h.parseProductRequest(c)
	if !ok {
		return err
	}

	created, err := h.service.CreateProduct(c.UserContext(), req.toProduct())
	if err != nil {
		return err
	}

	logger.FromCtx(c).Info("Product created",
		zap.Uint("product_id", created.ID),
		zap.String("name", created.Name))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateProduct replaces the mutable fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}
	req, ok, err := h.parseProductRequest(c)
	if !ok {
		return err
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, req.toProduct())
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return notFound(c, id)
		}
		return err
	}

	logger.FromCtx(c).Info("Product updated", zap.Uint("product_id", id))
	return c.JSON(updated)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return notFound(c, id)
		}
		return err
	}

	logger.FromCtx(c).Info("Product deleted", zap.Uint("product_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSearchByName lists products whose name contains the required "name" query.
func (h *ProductHandler) HandleSearchByName(c *fiber.Ctx) error {
	if !c.Context().QueryArgs().Has("name") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'name' is required",
		})
	}

	products, err := h.service.SearchByName(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleLowStock lists products whose stock is below the optional "stock" query.
func (h *ProductHandler) HandleLowStock(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("stock"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Query parameter 'stock' must be an integer", err)
		}
		threshold = &v
	}

	products, err := h.service.SearchLowStock(c.UserContext(), threshold)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleHealth reports liveness.
func (h *ProductHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString(HealthMessage)
}

// parseProductRequest reads and validates the body. When ok is false the
// response has already been written and err is what the handler must return.
func (h *ProductHandler) parseProductRequest(c *fiber.Ctx) (req ProductRequest, ok bool, err error) {
	if err := c.BodyParser(&req); err != nil {
		logger.FromCtx(c).Warn("Error parsing product request body", zap.Error(err))
		return req, false, badRequest(c, "Invalid request body", err)
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return req, false, err
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return req, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return req, true, nil
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, strconv.IntSize)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func notFound(c *fiber.Ctx, id uint) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %d not found", id),
	})
}
