package realtime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/jhkimon/crimson-erp-sub000/api"
	"github.com/jhkimon/crimson-erp-sub000/config"
	"github.com/jhkimon/crimson-erp-sub000/core/cache"
	inventoryRepo "github.com/jhkimon/crimson-erp-sub000/model/repository/inventory"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// Response for the combined price+stock endpoint
type PriceStockResponse struct {
	VariantCode string `json:"variant_code"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
}

// Singleton repository (created once per DB)
var (
	variantRepoInstance *inventoryRepo.VariantRepository
	repoOnce            sync.Once
	repoErr             error
)

func getRepository(db *gorm.DB) (*inventoryRepo.VariantRepository, error) {
	repoOnce.Do(func() {
		variantRepoInstance, repoErr = inventoryRepo.NewVariantRepository(db)
	})
	return variantRepoInstance, repoErr
}

// getSignKey returns the shared key POS clients sign requests with
func getSignKey() string {
	return config.GetEnv("REALTIME_SIGN_KEY", "")
}

// verifyClientSignature validates HMAC-SHA256 signature using constant-time comparison
func verifyClientSignature(clientID, signature, signKey string) bool {
	if signKey == "" || clientID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(signKey))
	mac.Write([]byte(clientID))
	expected := mac.Sum(nil)
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sig)
}

// RegisterRealtimeRoutes sets up the high-frequency stock/price lookup API
// used by POS terminals.
func RegisterRealtimeRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/price-stock?code=XXX
	g.GET("/price-stock", func(c echo.Context) error {
		start := time.Now()

		clientID := c.Request().Header.Get("X-Client-ID")
		clientSig := c.Request().Header.Get("X-Client-Sig")
		signKey := getSignKey()

		if signKey != "" && !verifyClientSignature(clientID, clientSig, signKey) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
		}

		code := c.QueryParam("code")
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
		}

		repo, err := getRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repository init failed"})
		}

		if v, ok := cache.GetInstance().Get("realtime:" + code); ok {
			c.Response().Header().Set("X-Cache", "hit")
			return c.JSON(http.StatusOK, v)
		}

		var price string
		var priceFound bool
		var stock int
		var stockFound bool

		// Parallel fetch using errgroup
		eg := new(errgroup.Group)

		eg.Go(func() error {
			price, priceFound = repo.GetPriceByCode(code)
			return nil
		})

		eg.Go(func() error {
			stock, stockFound = repo.GetStockByCode(code)
			return nil
		})

		_ = eg.Wait()

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		if !priceFound && !stockFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":               "variant not found",
				"request_duration_ms": duration,
			})
		}

		resp := PriceStockResponse{VariantCode: code, Price: price, Stock: stock}
		cache.GetInstance().Set("realtime:"+code, resp, 5, []string{"variants"})
		return c.JSON(http.StatusOK, resp)
	})

	// GET /api/realtime/stock?code=XXX - stock only
	g.GET("/stock", func(c echo.Context) error {
		start := time.Now()

		code := c.QueryParam("code")
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
		}

		repo, err := getRepository(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repository init failed"})
		}

		stock, found := repo.GetStockByCode(code)
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		if !found {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stock not found"})
		}

		return c.JSON(http.StatusOK, echo.Map{"variant_code": code, "stock": stock})
	})
}
