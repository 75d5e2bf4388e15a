package controller

import (
	"io"

	"support-rag-be/internal/pkg/serverutils"
	"support-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Chunks(ctx *fiber.Ctx) error
}

type documentController struct {
	ingestService service.IIngestService
}

func NewDocumentController(ingestService service.IIngestService) IDocumentController {
	return &documentController{
		ingestService: ingestService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("status", c.Status)
	h.Get("chunks", c.Chunks)
	h.Post("upload", c.Upload)
	h.Post("reindex", serverutils.JwtMiddleware, c.Reindex)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.ingestService.SaveUpload(ctx.Context(), fileHeader.Filename, content)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue document", res))
}

func (c *documentController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.ingestService.RebuildIndex(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rebuild index", res))
}

func (c *documentController) Status(ctx *fiber.Ctx) error {
	res, err := c.ingestService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get index status", res))
}

func (c *documentController) Chunks(ctx *fiber.Ctx) error {
	filename := ctx.Query("filename")
	if filename == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing filename query parameter")
	}

	res, err := c.ingestService.DocumentChunks(
		ctx.Context(),
		filename,
		ctx.QueryInt("limit", 50),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get document chunks", res))
}
