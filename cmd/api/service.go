package main

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/google/uuid"
)

type EditorAPIService interface {
	CreateSession(ctx context.Context) uuid.UUID
	CloseSession(ctx context.Context, id string) error
	LoadImage(ctx context.Context, id string, req *model.LoadRequest) (*model.LoadResult, error)
	Render(ctx context.Context, id string) (*bytes.Buffer, string, error)
	SaveAndShare(ctx context.Context, id string) (*model.SaveResult, error)
	SweepIdle(ctx context.Context, maxIdle time.Duration)
}

type GalleryAPIService interface {
	GetList(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error)
	LoadFile(ctx context.Context, id string) (io.ReadCloser, string, error)
	LoadThumbnail(ctx context.Context, id string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, id string) error
}
