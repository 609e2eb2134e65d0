package playground

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formkit/handler"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/upload"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// AvatarDir is the default upload directory for signup avatars.
const AvatarDir = "avatars"

// CreatedResponse is the body returned for a successful signup.
type CreatedResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// SignupService handles the playground signup form.
type SignupService struct {
	store        upload.Store
	avatarDir    string
	validate     handler.Validator[SignupRequest]
	logger       *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures a SignupService.
type Option func(*SignupService)

// WithValidator replaces the built-in rules, e.g. with schema.Decode.
func WithValidator(v handler.Validator[SignupRequest]) Option {
	return func(s *SignupService) {
		if v != nil {
			s.validate = v
		}
	}
}

// WithAvatarDir sets the upload directory for avatars.
func WithAvatarDir(dir string) Option {
	return func(s *SignupService) {
		if dir != "" {
			s.avatarDir = dir
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *SignupService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithErrorHandler sets the handler rendering bind, validation and storage errors.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *SignupService) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// NewSignupService creates the service. A nil store skips avatar storage.
func NewSignupService(store upload.Store, opts ...Option) *SignupService {
	s := &SignupService{
		store:     store,
		avatarDir: AvatarDir,
		validate:  validator.Decode[SignupRequest](SignupRules),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler[handler.Context](s.logger)
	}
	s.logger = s.logger.With(logger.Component("playground"))
	return s
}

// Handle mounts POST /users.
func (s *SignupService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/users", handler.Validated(s.createUser, s.validate,
		handler.WithErrorHandler[handler.Context, SignupRequest](s.errorHandler),
	))
	return r
}

func (s *SignupService) createUser(ctx handler.Context, req SignupRequest) handler.Response {
	if req.Avatar != nil && s.store != nil {
		obj, err := s.store.Save(ctx, req.Avatar, s.avatarDir)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to store avatar", logger.Error(err))
			return handler.JSONError(err)
		}
		s.logger.InfoContext(ctx, "avatar stored",
			slog.String("key", obj.Key),
			slog.Int64("size", obj.Size),
		)
	}

	// No persistence: the playground only exercises validation and uploads.
	return handler.JSONRaw(CreatedResponse{
		StatusCode: http.StatusCreated,
		Message:    "success",
	}, handler.WithJSONStatus(http.StatusCreated))
}
