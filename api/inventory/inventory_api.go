package inventory

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
	inventoryRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/inventory"
	inventoryService "github.com/jhkimon/crimson-erp-sub000/service/inventory"
)

func init() {
	api.RegisterModule(RegisterInventoryRoutes)
	api.RegisterModule(RegisterSnapshotRoutes)
}

// statusFor maps inventory service errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventoryService.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, inventoryService.ErrInvalidVariant):
		return http.StatusBadRequest
	case errors.Is(err, inventoryService.ErrPriorPeriodMissing):
		return http.StatusNotFound
	case errors.Is(err, inventoryService.ErrSnapshotNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// periodParams reads year/month query params, defaulting to the current month.
func periodParams(c echo.Context) (int, int, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if y := c.QueryParam("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return 0, 0, inventoryService.ValidationError("bad year %q", y)
		}
		year = v
	}
	if m := c.QueryParam("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			return 0, 0, inventoryService.ValidationError("bad month %q", m)
		}
		month = v
	}
	if month < 1 || month > 12 {
		return 0, 0, inventoryService.ValidationError("month %d out of range 1-12", month)
	}
	return year, month, nil
}

type variantInput struct {
	ProductCode  string   `json:"product_code" validate:"required"`
	ProductName  string   `json:"product_name"`
	Option       string   `json:"option"`
	DetailOption string   `json:"detail_option"`
	Price        string   `json:"price"`
	MinStock     int      `json:"min_stock"`
	Stock        int      `json:"stock"`
	Channels     []string `json:"channels"`
}

func RegisterInventoryRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/inventory")

	// POST /api/inventory/variants – create a variant with a derived code
	g.POST("/variants", func(c echo.Context) error {
		var body variantInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		var product inventoryEntity.Product
		if err := db.Where("product_code = ?", body.ProductCode).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "product not found: " + body.ProductCode})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		code, err := inventoryService.BuildVariantCode(body.ProductCode, product.Name, body.Option, body.DetailOption, false)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}

		existing, err := inventoryService.ResolveVariant(db, product.ID, body.Option, body.DetailOption, code)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if existing != nil && existing.VariantCode == code {
			return c.JSON(http.StatusConflict, echo.Map{"error": "variant exists", "variant_code": code})
		}

		price := decimal.Zero
		if body.Price != "" {
			price, err = decimal.NewFromString(body.Price)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad price " + body.Price})
			}
		}

		variant := &inventoryEntity.Variant{
			ProductID:    product.ID,
			VariantCode:  code,
			Option:       body.Option,
			DetailOption: body.DetailOption,
			Price:        price,
			MinStock:     body.MinStock,
			Stock:        body.Stock,
			IsActive:     true,
		}
		variant.SetChannels(body.Channels)
		if err := db.Create(variant).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, variant)
	})

	// GET /api/inventory/variants/:code
	g.GET("/variants/:code", func(c echo.Context) error {
		repo, err := inventoryRepo.NewVariantRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		v, err := repo.FindByCode(c.Param("code"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if v == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "variant not found"})
		}
		return c.JSON(http.StatusOK, v)
	})

	// PATCH /api/inventory/variants/:code – deactivate or edit basics
	g.PATCH("/variants/:code", func(c echo.Context) error {
		var body struct {
			Price    *string `json:"price"`
			MinStock *int    `json:"min_stock"`
			IsActive *bool   `json:"is_active"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		var v inventoryEntity.Variant
		if err := db.Where("variant_code = ?", c.Param("code")).First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "variant not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		if body.Price != nil {
			p, err := decimal.NewFromString(*body.Price)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad price " + *body.Price})
			}
			v.Price = p
		}
		if body.MinStock != nil {
			v.MinStock = *body.MinStock
		}
		if body.IsActive != nil {
			v.IsActive = *body.IsActive
		}
		if err := db.Save(&v).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, v)
	})

	// POST /api/inventory/adjustments – append a ledger entry
	g.POST("/adjustments", func(c echo.Context) error {
		var body inventoryService.AdjustmentInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		entry, err := inventoryService.RecordAdjustment(db, body)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, entry)
	})

	// GET /api/inventory/adjustments?year=&month=&variant_code=
	g.GET("/adjustments", func(c echo.Context) error {
		year, month, err := periodParams(c)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}

		repo, err := inventoryRepo.NewAdjustmentRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		if code := c.QueryParam("variant_code"); code != "" {
			vrepo, err := inventoryRepo.NewVariantRepository(db)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			v, err := vrepo.FindByCode(code)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			if v == nil {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "variant not found"})
			}
			rows, err := repo.ListByVariant(v.ID, year, month)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			sum, err := repo.SumDeltas(v.ID, year, month)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, echo.Map{"entries": rows, "adjustment_quantity": sum})
		}

		rows, err := repo.ListByPeriod(year, month)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"entries": rows})
	})
}
