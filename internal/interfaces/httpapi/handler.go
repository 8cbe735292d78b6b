package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	authService     *usecase.AuthService
	groupService    *usecase.GroupService
	playerService   *usecase.PlayerService
	fieldService    *usecase.FieldService
	matchService    *usecase.MatchService
	financeService  *usecase.FinanceService
	commentService  *usecase.CommentService
	overviewService *usecase.OverviewService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	groupService *usecase.GroupService,
	playerService *usecase.PlayerService,
	fieldService *usecase.FieldService,
	matchService *usecase.MatchService,
	financeService *usecase.FinanceService,
	commentService *usecase.CommentService,
	overviewService *usecase.OverviewService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:     authService,
		groupService:    groupService,
		playerService:   playerService,
		fieldService:    fieldService,
		matchService:    matchService,
		financeService:  financeService,
		commentService:  commentService,
		overviewService: overviewService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst, rejecting unknown fields, and
// validates it.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

// fail logs client errors at warn and everything else at error, then writes
// the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func requiredQuery(r *http.Request, key string) (string, error) {
	value := queryValue(r, key)
	if value == "" {
		return "", fmt.Errorf("%w: query parameter %s is required", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

func pathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}
