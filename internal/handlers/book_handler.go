// internal/handlers/book_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type BookHandler struct {
	service service.BookService
	logger  *slog.Logger
}

func NewBookHandler(s service.BookService, logger *slog.Logger) *BookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{
		service: s,
		logger:  logger,
	}
}

// PostBook は課題図書を登録するためのハンドラ（メンター専用）
func (h *BookHandler) PostBook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostBook"))

	mentorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("mentor_id", mentorID.String()))

	var req model.PostBookRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if appErr := webutil.ValidateStruct(req); appErr != nil {
		logger.Warn("Validation failed", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	book, err := h.service.PostBook(r.Context(), mentorID, &req)
	if err != nil {
		logger.Error("Error posting book in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Book posted successfully", slog.String("book_id", book.BookID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, book, logger)
}

// GetBooks は図書の一覧を取得するためのハンドラ
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetBooks"))

	books, err := h.service.GetBooks(r.Context())
	if err != nil {
		logger.Error("Error listing books in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if books == nil {
		books = []*model.Book{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, books, logger)
}

// GetBook は特定の図書を取得するためのハンドラ
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetBook"))

	bookID, appErr := parseUUIDParam(r, "book_id")
	if appErr != nil {
		logger.Warn("Invalid book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("book_id", bookID.String()))

	book, err := h.service.GetBook(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Book not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting book from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, book, logger)
}

// PutBook は図書情報を置き換えるためのハンドラ（メンター専用）
func (h *BookHandler) PutBook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutBook"))

	bookID, appErr := parseUUIDParam(r, "book_id")
	if appErr != nil {
		logger.Warn("Invalid book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("book_id", bookID.String()))

	var req model.PutBookRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if appErr := webutil.ValidateStruct(req); appErr != nil {
		logger.Warn("Validation failed", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	book, err := h.service.PutBook(r.Context(), bookID, &req)
	if err != nil {
		logger.Error("Error putting book in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Book updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, book, logger)
}

// parseUUIDParam はURLパラメータをUUIDとして解釈します。
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, *model.AppError) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", name+"の形式が正しくありません。", name, model.ErrInvalidInput)
	}
	return id, nil
}
