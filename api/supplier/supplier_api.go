package supplier

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jhkimon/crimson-erp-sub000/api"
	supplierEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/supplier"
)

func init() {
	api.RegisterModule(RegisterSupplierRoutes)
}

func RegisterSupplierRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/suppliers")

	g.POST("", func(c echo.Context) error {
		var body struct {
			Name    string `json:"name" validate:"required"`
			Contact string `json:"contact"`
			Manager string `json:"manager"`
			Email   string `json:"email" validate:"omitempty,email"`
			Address string `json:"address"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		s := &supplierEntity.Supplier{
			Name:    body.Name,
			Contact: body.Contact,
			Manager: body.Manager,
			Email:   body.Email,
			Address: body.Address,
		}
		if err := db.Create(s).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, s)
	})

	g.GET("", func(c echo.Context) error {
		var list []supplierEntity.Supplier
		if err := db.Order("name").Find(&list).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"suppliers": list})
	})

	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad supplier id"})
		}
		var s supplierEntity.Supplier
		if err := db.First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, s)
	})

	g.PATCH("/:id", func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad supplier id"})
		}
		var s supplierEntity.Supplier
		if err := db.First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		var body map[string]interface{}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		allowed := map[string]bool{"name": true, "contact": true, "manager": true, "email": true, "address": true}
		updates := map[string]interface{}{}
		for k, v := range body {
			if allowed[k] {
				updates[k] = v
			}
		}
		if len(updates) > 0 {
			if err := db.Model(&s).Updates(updates).Error; err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
		}
		return c.JSON(http.StatusOK, s)
	})
}
