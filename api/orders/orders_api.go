package orders

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhkimon/crimson-erp-sub000/api"
	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
	ordersEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/orders"
	ordersRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/orders"
	ordersService "github.com/jhkimon/crimson-erp-sub000/service/orders"
)

func init() {
	api.RegisterModule(RegisterOrderRoutes)
}

type orderItemInput struct {
	VariantCode string `json:"variant_code" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice   string `json:"unit_price"`
	Spec        string `json:"spec"`
}

type orderInput struct {
	SupplierID           uint             `json:"supplier_id" validate:"required"`
	ManagerID            uint             `json:"manager_id"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Note                 string           `json:"note"`
	Items                []orderItemInput `json:"items" validate:"required,min=1,dive"`
}

func RegisterOrderRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/orders")

	// POST /api/orders – create a PENDING purchase order
	g.POST("", func(c echo.Context) error {
		var body orderInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		order := &ordersEntity.Order{
			SupplierID:           body.SupplierID,
			ManagerID:            body.ManagerID,
			Status:               ordersEntity.StatusPending,
			OrderDate:            time.Now(),
			ExpectedDeliveryDate: body.ExpectedDeliveryDate,
			Note:                 body.Note,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, in := range body.Items {
				var variant inventoryEntity.Variant
				err := tx.Where("variant_code = ? AND is_active = ?", in.VariantCode, true).First(&variant).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "unknown variant "+in.VariantCode)
				}
				if err != nil {
					return err
				}

				price := variant.Price
				if in.UnitPrice != "" {
					price, err = decimal.NewFromString(in.UnitPrice)
					if err != nil {
						return echo.NewHTTPError(http.StatusBadRequest, "bad unit_price "+in.UnitPrice)
					}
				}

				var product inventoryEntity.Product
				if err := tx.First(&product, variant.ProductID).Error; err != nil {
					return err
				}

				order.Items = append(order.Items, ordersEntity.OrderItem{
					VariantID: variant.ID,
					ItemName:  product.Name,
					Quantity:  in.Quantity,
					UnitPrice: price,
					Spec:      in.Spec,
				})
			}
			return tx.Create(order).Error
		})
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				return c.JSON(he.Code, echo.Map{"error": he.Message})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, order)
	})

	// GET /api/orders?status=&limit=&offset=
	g.GET("", func(c echo.Context) error {
		status := c.QueryParam("status")
		if status != "" && !ordersEntity.ValidStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status " + status})
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))

		repo := ordersRepo.NewOrderRepository(db)
		list, err := repo.List(status, limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"orders": list})
	})

	// GET /api/orders/:id
	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad order id"})
		}
		repo := ordersRepo.NewOrderRepository(db)
		o, err := repo.FindByIDWithItems(uint(id))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if o == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusOK, o)
	})

	// PATCH /api/orders/:id/status – the only stock-mutating order path
	g.PATCH("/:id/status", func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad order id"})
		}

		var body struct {
			Status string `json:"status" validate:"required"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		res, err := ordersService.Transition(db, uint(id), body.Status)
		if err != nil {
			var insufficient *ordersService.InsufficientStockError
			switch {
			case errors.As(err, &insufficient):
				return c.JSON(http.StatusConflict, echo.Map{
					"error":        err.Error(),
					"variant_code": insufficient.VariantCode,
					"required":     insufficient.Required,
					"available":    insufficient.Available,
				})
			case errors.Is(err, ordersService.ErrNoOpTransition):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			case errors.Is(err, ordersService.ErrInvalidStatus):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			case errors.Is(err, ordersService.ErrOrderNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, res)
	})
}
