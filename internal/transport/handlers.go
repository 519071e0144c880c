// Package transport provides methods for processing requests from endpoints
package transport

import (
	"bytes"
	"context"
	"io"
	"log"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
)

type ImageHandler struct {
	editor  EditorService
	gallery GalleryService
}

type EditorService interface {
	CreateSession(ctx context.Context) uuid.UUID
	CloseSession(ctx context.Context, id string) error
	LoadImage(ctx context.Context, id string, req *model.LoadRequest) (*model.LoadResult, error)
	Render(ctx context.Context, id string) (*bytes.Buffer, string, error)
	SaveAndShare(ctx context.Context, id string) (*model.SaveResult, error)
}

type GalleryService interface {
	GetList(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error)
	LoadFile(ctx context.Context, id string) (io.ReadCloser, string, error)
	LoadThumbnail(ctx context.Context, id string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, id string) error // удалить как в базе, так и в хранилище
}

func NewImageHandler(editor EditorService, gallery GalleryService) *ImageHandler {
	return &ImageHandler{
		editor:  editor,
		gallery: gallery,
	}
}

func (h ImageHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h ImageHandler) CreateSession(ctx *ginext.Context) {
	id := h.editor.CreateSession(ctx.Request.Context())
	ctx.JSON(201, map[string]string{"session_id": id.String()})
}

func (h ImageHandler) CloseSession(ctx *ginext.Context) {
	if err := h.editor.CloseSession(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(204)
}

func (h ImageHandler) LoadImage(ctx *ginext.Context) {
	var req model.LoadRequest
	var err error

	if req.Width, err = optionalInt(ctx, "width"); err != nil {
		respondError(ctx, err)
		return
	}
	if req.Height, err = optionalInt(ctx, "height"); err != nil {
		respondError(ctx, err)
		return
	}
	if text, ok := ctx.GetPostForm("text"); ok {
		req.Text = &text
	}

	// парсинг исходника
	imageFile, _, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "image is required"})
		return
	}
	if req.Image, err = readFormFile(imageFile); err != nil {
		respondError(ctx, err)
		return
	}

	// watermark опционален
	wmFile, wmHeader, err := ctx.Request.FormFile("watermark")
	if err == nil {
		req.WMContentType = wmHeader.Header.Get("Content-Type")
		if req.WMImg, err = readFormFile(wmFile); err != nil {
			respondError(ctx, err)
			return
		}
	}

	res, err := h.editor.LoadImage(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) Render(ctx *ginext.Context) {
	id := ctx.Param("id")

	res, cType, err := h.editor.Render(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Writer.Header().Set("Content-Type", cType)
	ctx.Writer.WriteHeader(200)
	if n, err := io.Copy(ctx.Writer, res); err != nil {
		log.Printf("Failed to write response at byte %d for session %q: %v", n, id, err)
	}
}

func (h ImageHandler) SaveAndShare(ctx *ginext.Context) {
	res, err := h.editor.SaveAndShare(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(201, res)
}

func (h ImageHandler) GetAllImages(ctx *ginext.Context) {
	var req model.ListRequest

	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "failed to parse query-params"})
		return
	}

	res, err := h.gallery.GetList(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) LoadFile(ctx *ginext.Context) {
	h.stream(ctx, h.gallery.LoadFile)
}

func (h ImageHandler) LoadThumbnail(ctx *ginext.Context) {
	h.stream(ctx, h.gallery.LoadThumbnail)
}

func (h ImageHandler) stream(ctx *ginext.Context, load func(context.Context, string) (io.ReadCloser, string, error)) {
	id := ctx.Param("id")

	res, cType, err := load(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer closeFileFlow(res)

	ctx.Writer.Header().Set("Content-Type", cType)
	ctx.Writer.WriteHeader(200)
	if n, err := io.Copy(ctx.Writer, res); err != nil {
		log.Printf("Failed to write response at byte %d for file id %q: %v", n, id, err)
	}
}

func (h ImageHandler) Delete(ctx *ginext.Context) {
	id := ctx.Param("id")
	if err := h.gallery.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(204)
}
