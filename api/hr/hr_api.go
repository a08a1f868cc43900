package hr

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jhkimon/crimson-erp-sub000/api"
	hrEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/hr"
)

func init() {
	api.RegisterModule(RegisterHRRoutes)
}

func RegisterHRRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/hr")

	g.POST("/employees", func(c echo.Context) error {
		var body struct {
			Username        string  `json:"username" validate:"required"`
			FirstName       string  `json:"first_name"`
			Email           string  `json:"email" validate:"omitempty,email"`
			Role            string  `json:"role"`
			AnnualLeaveDays float64 `json:"annual_leave_days"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}
		if body.Role == "" {
			body.Role = "STAFF"
		}

		e := &hrEntity.Employee{
			Username:        body.Username,
			FirstName:       body.FirstName,
			Email:           body.Email,
			Role:            body.Role,
			AnnualLeaveDays: body.AnnualLeaveDays,
			IsActive:        true,
		}
		if err := db.Create(e).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, e)
	})

	g.GET("/employees", func(c echo.Context) error {
		var list []hrEntity.Employee
		if err := db.Where("is_active = ?", true).Order("username").Find(&list).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"employees": list})
	})

	g.POST("/vacations", func(c echo.Context) error {
		var body struct {
			EmployeeID uint   `json:"employee_id" validate:"required"`
			LeaveType  string `json:"leave_type" validate:"required"`
			StartDate  string `json:"start_date" validate:"required"`
			EndDate    string `json:"end_date" validate:"required"`
			Reason     string `json:"reason"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		start, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad start_date " + body.StartDate})
		}
		end, err := time.Parse("2006-01-02", body.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad end_date " + body.EndDate})
		}
		if end.Before(start) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date before start_date"})
		}

		var employee hrEntity.Employee
		if err := db.First(&employee, body.EmployeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		v := &hrEntity.VacationRequest{
			EmployeeID: body.EmployeeID,
			LeaveType:  body.LeaveType,
			StartDate:  start,
			EndDate:    end,
			Status:     hrEntity.VacationPending,
			Reason:     body.Reason,
		}
		if err := db.Create(v).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, v)
	})

	g.PATCH("/vacations/:id/status", func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad vacation id"})
		}
		var body struct {
			Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED CANCELLED"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		var v hrEntity.VacationRequest
		if err := db.First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "vacation not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if err := db.Model(&v).Update("status", body.Status).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, v)
	})
}
