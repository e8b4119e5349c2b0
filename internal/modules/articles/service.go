package articles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/storage"
)

type Service struct {
	*crud.Service[Article]
	store storage.Storage
	log   *slog.Logger
}

// NewService builds the article service. store may be nil, which disables
// image uploads.
func NewService(o crud.Options[Article], store storage.Storage) *Service {
	s := &Service{store: store, log: o.Logger}
	if s.log == nil {
		s.log = slog.Default()
	}
	o.Name = EntityName
	o.BeforeSave = s.beforeSave
	o.AfterDelete = s.afterDelete
	s.Service = crud.NewService(o)
	return s
}

type imageWrite struct{}

// imageUrl is owned by AttachImage; client-supplied values are ignored.
func (s *Service) beforeSave(ctx context.Context, a Article) (Article, error) {
	if ctx.Value(imageWrite{}) != nil {
		return a, nil
	}
	if a.ID == 0 {
		a.ImageURL, a.ImageKey = "", ""
		return a, nil
	}
	cur, err := s.Get(ctx, a.ID)
	if err != nil {
		return a, err
	}
	a.ImageURL, a.ImageKey = cur.ImageURL, cur.ImageKey
	return a, nil
}

func (s *Service) afterDelete(ctx context.Context, a Article) {
	s.dropImage(ctx, a.ImageKey)
}

var ErrImagesDisabled = errors.New("image storage is not configured")

// AttachImage stores r as the article's image, replacing any previous one.
func (s *Service) AttachImage(ctx context.Context, id int64, r io.Reader, in storage.PutInput) (Article, error) {
	if s.store == nil {
		return Article{}, ErrImagesDisabled
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return Article{}, err
	}

	res, err := s.store.Put(ctx, r, in)
	if err != nil {
		return Article{}, fmt.Errorf("store image: %w", err)
	}

	prevKey := a.ImageKey
	a.ImageURL, a.ImageKey = res.URL, res.Key
	updated, err := s.Update(context.WithValue(ctx, imageWrite{}, true), a)
	if err != nil {
		s.dropImage(ctx, res.Key)
		return Article{}, err
	}
	s.dropImage(ctx, prevKey)
	return updated, nil
}

func (s *Service) dropImage(ctx context.Context, key string) {
	if key == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.WarnContext(ctx, "article image delete failed", slog.String("key", key), slog.Any("err", err))
	}
}
