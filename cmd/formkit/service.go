package main

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/formkit/component"
	apperrors "github.com/kbukum/formkit/errors"
	"github.com/kbukum/formkit/forms"
	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/server"
	"github.com/kbukum/formkit/server/middleware"
	"github.com/kbukum/formkit/storage"
	"github.com/kbukum/formkit/storage/memory"
	"github.com/kbukum/formkit/util"

	// Bundled backends register their factories in init.
	_ "github.com/kbukum/formkit/storage/local"
	_ "github.com/kbukum/formkit/storage/s3"
	_ "github.com/kbukum/formkit/storage/supabase"
)

// uploadField is the multipart field read by POST /files.
const uploadField = "file"

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

type service struct {
	cfg     *Config
	storage *storage.Component
	server  *server.Server
	env     forms.Env
	log     *logger.Logger
}

// newService wires storage, forms and the HTTP server from cfg. health
// reports component health for /health and may be nil.
func newService(cfg *Config, log *logger.Logger, health func(ctx context.Context) []component.Health) *service {
	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	cfg.Storage.URLs = srv.Routes()
	registry := storage.NewRegistry(&cfg.Storage.Config, log)
	registry.Configure(storage.ProviderLocal, &cfg.Storage.Local)
	registry.Configure(storage.ProviderS3, &cfg.Storage.S3)
	registry.Configure(storage.ProviderSupabase, &cfg.Storage.Supabase)
	registry.Configure(storage.ProviderMemory, memory.New(""))

	formsLog := log.WithComponent("forms")
	logger.Register("forms", formsLog)

	// Fields resolve through the component so every request shares the
	// backend built at startup.
	store := storage.NewComponent(registry, log)
	s := &service{
		cfg:     cfg,
		storage: store,
		server:  srv,
		env: forms.Env{
			Options:  cfg.Forms,
			Backends: store,
			Log:      formsLog,
		},
		log: log.WithComponent("api"),
	}

	srv.RegisterDefaultEndpoints(cfg.Name, health)
	server.RegisterStaticUploads(srv, "/uploads", s.storage)
	srv.POST("upload", "/files",
		middleware.GinWrap(middleware.RateLimit(cfg.Server.UploadRateLimit)),
		s.handleUpload,
	)
	return s
}

// uploadResponse is the body of a successful POST /files.
type uploadResponse struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

func (s *service) newUploadForm() (*forms.Form, *forms.FileField) {
	validators := []forms.Validator{
		forms.FileRequired(""),
		forms.FileMaxSize(s.cfg.Storage.MaxFileSize, ""),
	}
	if len(s.cfg.Forms.AllowedExtensions) > 0 {
		validators = append(validators, forms.FileAllowed(s.cfg.Forms.AllowedExtensions, ""))
	}
	field := forms.NewFileField(uploadField,
		forms.WithLabel("File"),
		forms.WithAutoSave(false),
		forms.WithValidators(validators...),
	)
	return forms.New(s.env, field), field
}

func (s *service) handleUpload(c *gin.Context) {
	ctx := c.Request.Context()
	form, field := s.newUploadForm()

	if err := form.ProcessRequest(ctx, c.Request, multipartMemory); err != nil {
		server.RespondWithError(c, err)
		return
	}
	defer func() {
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}()

	if err := form.Validate(ctx); err != nil {
		s.log.Info("upload rejected", logger.Fields(
			logger.FieldError, err.Error(),
			"filename", field.Filename(),
		))
		server.RespondWithError(c, err)
		return
	}

	if err := field.SaveFile(ctx); err != nil {
		s.log.Error("upload failed", logger.ErrorFields("save", err))
		server.RespondWithError(c, storageError(s.env.Options.Backend, err))
		return
	}

	url, err := field.URL(ctx, nil)
	if err != nil {
		s.log.Error("url build failed", logger.ErrorFields("url", err))
		form.Discard(ctx)
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	s.log.Info("upload stored", logger.Fields(
		logger.FieldPath, field.Data,
		"size", field.File.Size,
		"ext", util.ExtNoDot(field.Filename()),
	))
	server.RespondCreated(c, url, uploadResponse{
		Path:     field.Data,
		URL:      url,
		Filename: field.Filename(),
		Size:     field.File.Size,
	})
}

// storageError keeps AppErrors and wraps anything else as STORAGE_ERROR.
func storageError(backend string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.StorageFailed(backend, err)
}
