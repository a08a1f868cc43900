package inventory

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	inventoryRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/inventory"
	inventoryService "github.com/jhkimon/crimson-erp-sub000/service/inventory"
)

// snapshotView is one listed snapshot row with its derived quantities.
type snapshotView struct {
	VariantID           uint   `json:"variant_id"`
	VariantCode         string `json:"variant_code"`
	Year                int    `json:"year"`
	Month               int    `json:"month"`
	WarehouseStockStart int    `json:"warehouse_stock_start"`
	StoreStockStart     int    `json:"store_stock_start"`
	InboundQuantity     int    `json:"inbound_quantity"`
	StoreSales          int    `json:"store_sales"`
	OnlineSales         int    `json:"online_sales"`
	AdjustmentQuantity  int    `json:"adjustment_quantity"`
	EndingStock         int    `json:"ending_stock"`
	Version             int    `json:"version"`
}

func RegisterSnapshotRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/inventory/snapshots")

	// GET /api/inventory/snapshots?year=&month=
	g.GET("", func(c echo.Context) error {
		year, month, err := periodParams(c)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}

		repo := inventoryRepo.NewSnapshotRepository(db)
		rows, err := repo.ListByPeriod(year, month)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		adjustments, err := inventoryRepo.SumAdjustmentDeltasByPeriod(db, year, month)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		codes := map[uint]string{}
		if len(rows) > 0 {
			type codeRow struct {
				ID          uint   `gorm:"column:id"`
				VariantCode string `gorm:"column:variant_code"`
			}
			ids := make([]uint, 0, len(rows))
			for _, s := range rows {
				ids = append(ids, s.VariantID)
			}
			var crs []codeRow
			if err := db.Table("product_variants").Select("id, variant_code").Where("id IN ?", ids).Find(&crs).Error; err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			for _, cr := range crs {
				codes[cr.ID] = cr.VariantCode
			}
		}

		views := make([]snapshotView, 0, len(rows))
		for _, s := range rows {
			adj := adjustments[s.VariantID]
			views = append(views, snapshotView{
				VariantID:           s.VariantID,
				VariantCode:         codes[s.VariantID],
				Year:                s.Year,
				Month:               s.Month,
				WarehouseStockStart: s.WarehouseStockStart,
				StoreStockStart:     s.StoreStockStart,
				InboundQuantity:     s.InboundQuantity,
				StoreSales:          s.StoreSales,
				OnlineSales:         s.OnlineSales,
				AdjustmentQuantity:  adj,
				EndingStock:         s.EndingStock(adj),
				Version:             s.Version,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"snapshots": views})
	})

	// POST /api/inventory/snapshots/rollover – explicit creation for a
	// target period, seeding opening stock from the prior month's close.
	g.POST("/rollover", func(c echo.Context) error {
		var body struct {
			Year  int `json:"year" validate:"required"`
			Month int `json:"month" validate:"required,min=1,max=12"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		srcYear, srcMonth := inventoryService.PrevPeriod(body.Year, body.Month)
		res, err := inventoryService.Rollover(db, srcYear, srcMonth, inventoryService.RolloverOptions{
			SeedFromEndingStock: true,
			RequireSource:       true,
		})
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, echo.Map{"created": res.Created, "skipped": res.Skipped})
	})

	// PUT /api/inventory/snapshots/bulk – optimistic-concurrency bulk edit
	g.PUT("/bulk", func(c echo.Context) error {
		var body struct {
			Year  int                      `json:"year" validate:"required"`
			Month int                      `json:"month" validate:"required,min=1,max=12"`
			Rows  []map[string]interface{} `json:"rows" validate:"required"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return err
		}

		rows, err := inventoryService.DecodeBulkRows(body.Rows)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}
		res, err := inventoryService.BulkEditSnapshots(db, body.Year, body.Month, rows)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, res)
	})

	// PATCH /api/inventory/snapshots/:variant_code – single edit, no version check
	g.PATCH("/:variant_code", func(c echo.Context) error {
		year, month, err := periodParams(c)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}

		var fields map[string]interface{}
		if err := c.Bind(&fields); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		s, err := inventoryService.EditSnapshot(db, year, month, c.Param("variant_code"), fields)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, s)
	})

	// GET /api/inventory/snapshots/export?year=&month= – xlsx download
	g.GET("/export", func(c echo.Context) error {
		year, month, err := periodParams(c)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}

		f, err := inventoryService.ExportSnapshots(db, year, month)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=snapshots.xlsx")
		c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Response().WriteHeader(http.StatusOK)
		return f.Write(c.Response())
	})

	// POST /api/inventory/snapshots/import – xlsx upload into a period
	g.POST("/import", func(c echo.Context) error {
		year, month, err := periodParams(c)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
		}
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		defer src.Close()

		res, err := inventoryService.ImportSnapshotSheet(db, src, year, month)
		if err != nil {
			return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, res)
	})
}
