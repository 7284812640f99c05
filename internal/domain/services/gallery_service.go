package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

var (
	ErrUnsupportedMediaType = errors.New("only images can be uploaded")
	ErrFileTooLarge         = errors.New("file is too large")
	ErrEmptyFile            = errors.New("file is empty")
	ErrEmptyObjectKey       = errors.New("object key is empty")
)

const (
	// DefaultFolder папка для загрузок без явно указанной папки
	DefaultFolder = "uploads"

	mediaResource = "media"
)

var (
	galleryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_gallery_operations_total",
			Help: "Операции с медиа-галереей",
		},
		[]string{"op", "result"},
	)

	galleryUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_gallery_upload_bytes",
			Help:    "Размер загруженных изображений",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
	)
)

// MediaURLCacheKey ключ кэша подписанной ссылки на объект
func MediaURLCacheKey(key string) string {
	return "media:url:" + key
}

// GalleryObject объект галереи со ссылкой для просмотра
type GalleryObject struct {
	interfaces.ObjectInfo
	URL string `json:"url"`
}

// GalleryPage страница галереи
type GalleryPage struct {
	Objects   []GalleryObject `json:"objects"`
	NextToken string          `json:"next_token,omitempty"`
	Truncated bool            `json:"truncated"`
}

// GalleryOptions ограничения и сроки жизни ссылок галереи
type GalleryOptions struct {
	MaxUploadSize  int64
	PresignExpires time.Duration
	URLCacheTTL    time.Duration
}

// GalleryService медиа-галерея админки поверх S3-совместимого хранилища
type GalleryService struct {
	objects   interfaces.ObjectStorePort
	cache     interfaces.CachePort
	publisher EventPublisher
	opts      GalleryOptions
	logger    interfaces.LoggerPort
}

// NewGalleryService создает сервис; cache может быть nil
func NewGalleryService(objects interfaces.ObjectStorePort, cache interfaces.CachePort, publisher EventPublisher, opts GalleryOptions, logger interfaces.LoggerPort) *GalleryService {
	if opts.PresignExpires <= 0 {
		opts.PresignExpires = time.Hour
	}
	// ссылка из кэша не должна протухнуть раньше записи
	if opts.URLCacheTTL <= 0 || opts.URLCacheTTL >= opts.PresignExpires {
		opts.URLCacheTTL = opts.PresignExpires * 5 / 6
	}
	return &GalleryService{objects: objects, cache: cache, publisher: publisher, opts: opts, logger: logger}
}

// List объекты папки folder
func (s *GalleryService) List(ctx context.Context, folder, token string, limit int32) (*GalleryPage, error) {
	prefix := cleanFolder(folder)
	if prefix != "" {
		prefix += "/"
	}

	page, err := s.objects.List(ctx, prefix, token, limit)
	if err != nil {
		galleryOperations.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	galleryOperations.WithLabelValues("list", "ok").Inc()

	out := &GalleryPage{
		Objects:   make([]GalleryObject, 0, len(page.Objects)),
		NextToken: page.NextToken,
		Truncated: page.Truncated,
	}
	for _, obj := range page.Objects {
		u, err := s.ResolveImageURL(ctx, obj.Key)
		if err != nil {
			s.logger.WarnWithContext(ctx, "Не удалось подписать ссылку",
				interfaces.LogField{Key: "key", Value: obj.Key},
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		out.Objects = append(out.Objects, GalleryObject{ObjectInfo: obj, URL: u})
	}
	return out, nil
}

// Upload загружает изображение под ключом <folder>/<uuid><ext>
func (s *GalleryService) Upload(ctx context.Context, folder, filename, contentType string, size int64, body io.Reader) (*GalleryObject, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		galleryOperations.WithLabelValues("upload", "rejected").Inc()
		return nil, ErrUnsupportedMediaType
	}
	if size <= 0 {
		galleryOperations.WithLabelValues("upload", "rejected").Inc()
		return nil, ErrEmptyFile
	}
	if s.opts.MaxUploadSize > 0 && size > s.opts.MaxUploadSize {
		galleryOperations.WithLabelValues("upload", "rejected").Inc()
		return nil, ErrFileTooLarge
	}

	key := objectKey(folder, filename, mediaType)
	if err := s.objects.Put(ctx, key, body, size, mediaType); err != nil {
		galleryOperations.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("ошибка загрузки файла: %w", err)
	}
	galleryOperations.WithLabelValues("upload", "ok").Inc()
	galleryUploadBytes.Observe(float64(size))

	s.publisher.PublishQuietly(ctx, messaging.MediaUploadedEvent, mediaResource, key, map[string]interface{}{
		"key":          key,
		"size":         size,
		"content_type": mediaType,
	})

	s.logger.InfoWithContext(ctx, "Файл загружен в галерею",
		interfaces.LogField{Key: "key", Value: key},
		interfaces.LogField{Key: "size", Value: size})

	u, _ := s.ResolveImageURL(ctx, key)
	return &GalleryObject{
		ObjectInfo: interfaces.ObjectInfo{Key: key, Size: size, LastModified: time.Now().UTC()},
		URL:        u,
	}, nil
}

// Delete удаляет объект и его закэшированную ссылку
func (s *GalleryService) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return ErrEmptyObjectKey
	}

	if err := s.objects.Delete(ctx, key); err != nil {
		if errors.Is(err, interfaces.ErrObjectNotFound) {
			galleryOperations.WithLabelValues("delete", "not_found").Inc()
			return ErrNotFound
		}
		galleryOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("ошибка удаления файла: %w", err)
	}
	galleryOperations.WithLabelValues("delete", "ok").Inc()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, MediaURLCacheKey(key)); err != nil {
			s.logger.WarnWithContext(ctx, "Не удалось удалить ссылку из кэша",
				interfaces.LogField{Key: "key", Value: key},
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}

	s.publisher.PublishQuietly(ctx, messaging.MediaDeletedEvent, mediaResource, key, map[string]string{"key": key})
	return nil
}

// Presign новая подписанная ссылка в обход кэша
func (s *GalleryService) Presign(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrEmptyObjectKey
	}
	u, err := s.objects.PresignGet(ctx, key, s.opts.PresignExpires)
	if err != nil {
		galleryOperations.WithLabelValues("presign", "error").Inc()
		return "", fmt.Errorf("ошибка подписи ссылки: %w", err)
	}
	galleryOperations.WithLabelValues("presign", "ok").Inc()
	return u, nil
}

// ResolveImageURL превращает ключ объекта в ссылку. Абсолютные http(s) ссылки
// возвращаются как есть, подписанные ссылки кэшируются на URLCacheTTL.
func (s *GalleryService) ResolveImageURL(ctx context.Context, key string) (string, error) {
	if key == "" || isAbsoluteURL(key) {
		return key, nil
	}
	key = strings.TrimPrefix(key, "/")

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, MediaURLCacheKey(key)); err == nil {
			return string(raw), nil
		}
	}

	u, err := s.Presign(ctx, key)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, MediaURLCacheKey(key), []byte(u), s.opts.URLCacheTTL); err != nil {
			s.logger.WarnWithContext(ctx, "Не удалось закэшировать ссылку",
				interfaces.LogField{Key: "key", Value: key},
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}
	return u, nil
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// cleanFolder убирает лишние слэши и попытки выйти из папки
func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+strings.TrimSpace(folder)), "/")
	if folder == "." {
		return ""
	}
	return folder
}

func objectKey(folder, filename, mediaType string) string {
	dir := cleanFolder(folder)
	if dir == "" {
		dir = DefaultFolder
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return dir + "/" + uuid.New().String() + ext
}
