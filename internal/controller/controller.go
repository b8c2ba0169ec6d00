package controller

import (
	"github.com/jaehokim/marketplace-service/internal/dto"
	"github.com/jaehokim/marketplace-service/internal/service"
	pkgdto "github.com/jaehokim/marketplace-service/pkg/dto"
	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService) {
	c := Controller{
		service: service,
	}
	e.POST("/image", c.UploadImage)
	e.GET("/products", c.GetProducts)
	e.POST("/products", c.AddProduct)
	e.GET("/products/:id", c.GetProductByID)
	e.GET("/products/:id/recommendations", c.GetRecommendations)
	e.POST("/products/:id/purchase", c.PurchaseProduct)
	e.DELETE("/products/:id", c.DeleteProduct)
	e.GET("/banners", c.GetBanners)
}

func (c *Controller) UploadImage(e echo.Context) error {
	fileHeader, err := e.FormFile("image")
	if err != nil {
		log.Error().Err(err).Str("component", "UploadImage").Msg("")
		return pkgdto.WriteErrorResponse(e, errs.ErrNotAnImage, nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("component", "UploadImage").Msg("")
		return pkgdto.WriteErrorResponse(e, errs.ErrInternalServer, nil)
	}
	defer file.Close()

	responsePayload, err := c.service.UploadImage(e.Request().Context(), fileHeader.Filename, file)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "image uploaded", responsePayload)
}

func (c *Controller) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
		return pkgdto.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	responsePayload, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "product created", responsePayload)
}

func (c *Controller) GetProducts(e echo.Context) error {
	responsePayload, err := c.service.GetProducts(e.Request().Context())
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved products record", responsePayload)
}

func (c *Controller) GetProductByID(e echo.Context) error {
	id := e.Param("id")
	responsePayload, err := c.service.GetProductByID(e.Request().Context(), id)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved product record", responsePayload)
}

func (c *Controller) GetRecommendations(e echo.Context) error {
	id := e.Param("id")
	responsePayload, err := c.service.GetRecommendations(e.Request().Context(), id)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved related products", responsePayload)
}

func (c *Controller) PurchaseProduct(e echo.Context) error {
	id := e.Param("id")
	err := c.service.PurchaseProduct(e.Request().Context(), id)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "product purchased", nil)
}

func (c *Controller) DeleteProduct(e echo.Context) error {
	id := e.Param("id")
	err := c.service.DeleteProduct(e.Request().Context(), id)
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "product deleted", nil)
}

func (c *Controller) GetBanners(e echo.Context) error {
	responsePayload, err := c.service.GetBanners(e.Request().Context())
	if err != nil {
		return pkgdto.WriteErrorResponse(e, err, nil)
	}

	return pkgdto.WriteSuccessResponse(e, "successfully retrieved banners", responsePayload)
}
