// internal/handlers/assignment_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"regexp"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"
)

var dateParamPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type AssignmentHandler struct {
	service            service.AssignmentService
	studentBookService service.StudentBookService
	logger             *slog.Logger
}

func NewAssignmentHandler(s service.AssignmentService, studentBookService service.StudentBookService, logger *slog.Logger) *AssignmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentHandler{
		service:            s,
		studentBookService: studentBookService,
		logger:             logger,
	}
}

// PostAssignment は1日分の課題を作成するためのハンドラ（メンター専用）
func (h *AssignmentHandler) PostAssignment(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAssignment"))

	studentBookID, appErr := parseUUIDParam(r, "student_book_id")
	if appErr != nil {
		logger.Warn("Invalid student book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("student_book_id", studentBookID.String()))

	var req model.PostAssignmentRequest
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

	assignment, err := h.service.PostAssignment(r.Context(), studentBookID, &req)
	if err != nil {
		logger.Error("Error posting assignment in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Assignment posted successfully", slog.String("assignment_id", assignment.AssignmentID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, assignment, logger)
}

// GeneratePlan は期間を指定して平日分の課題を一括生成するためのハンドラ（メンター専用）
func (h *AssignmentHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GeneratePlan"))

	studentBookID, appErr := parseUUIDParam(r, "student_book_id")
	if appErr != nil {
		logger.Warn("Invalid student book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("student_book_id", studentBookID.String()))

	var req model.GeneratePlanRequest
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

	result, err := h.service.GeneratePlan(r.Context(), studentBookID, &req)
	if err != nil {
		logger.Error("Error generating plan in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Plan generated successfully", slog.Int("created", result.Created), slog.Int("skipped", result.SkippedExisting))
	webutil.RespondWithJSON(w, http.StatusCreated, result, logger)
}

// GetAssignments は期間内の課題を表示用ステータス付きで返すためのハンドラ
func (h *AssignmentHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetAssignments"))

	studentBookID, appErr := parseUUIDParam(r, "student_book_id")
	if appErr != nil {
		logger.Warn("Invalid student book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	sb, err := h.studentBookService.GetStudentBook(r.Context(), studentBookID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if appErr := authorizeStudentScope(r.Context(), sb.StudentID); appErr != nil {
		logger.Warn("Forbidden access attempt", slog.String("student_book_id", studentBookID.String()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	fromDate, toDate, appErr := parseDateRange(r)
	if appErr != nil {
		logger.Warn("Invalid date range", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	assignments, err := h.service.GetAssignments(r.Context(), studentBookID, fromDate, toDate)
	if err != nil {
		logger.Error("Error listing assignments in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if assignments == nil {
		assignments = []*model.AssignmentResponse{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, assignments, logger)
}

// GetMyAssignments は生徒自身の読書中の本の課題一覧を返すためのハンドラ
func (h *AssignmentHandler) GetMyAssignments(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMyAssignments"))

	studentID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	sb, err := h.studentBookService.GetActiveStudentBook(r.Context(), studentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	fromDate, toDate, appErr := parseDateRange(r)
	if appErr != nil {
		logger.Warn("Invalid date range", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	assignments, err := h.service.GetAssignments(r.Context(), sb.StudentBookID, fromDate, toDate)
	if err != nil {
		logger.Error("Error listing assignments in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if assignments == nil {
		assignments = []*model.AssignmentResponse{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, assignments, logger)
}

// PatchAssignment は未確定の課題の目標・締切を編集するためのハンドラ（メンター専用）
func (h *AssignmentHandler) PatchAssignment(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchAssignment"))

	assignmentID, appErr := parseUUIDParam(r, "assignment_id")
	if appErr != nil {
		logger.Warn("Invalid assignment ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("assignment_id", assignmentID.String()))

	var req model.PatchAssignmentRequest
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

	assignment, err := h.service.PatchAssignment(r.Context(), assignmentID, &req)
	if err != nil {
		logger.Error("Error patching assignment in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Assignment patched successfully")
	webutil.RespondWithJSON(w, http.StatusOK, assignment, logger)
}

// SubmitAssignment は生徒が課題を提出するためのハンドラ
func (h *AssignmentHandler) SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitAssignment"))

	studentID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	assignmentID, appErr := parseUUIDParam(r, "assignment_id")
	if appErr != nil {
		logger.Warn("Invalid assignment ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("assignment_id", assignmentID.String()))

	assignment, err := h.service.SubmitAssignment(r.Context(), assignmentID, studentID)
	if err != nil {
		logger.Error("Error submitting assignment in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Assignment submitted successfully")
	webutil.RespondWithJSON(w, http.StatusOK, assignment, logger)
}

// GradeAssignment はメンターが課題を評価するためのハンドラ（メンター専用）。
// 評価・ボーナス反映・目標判定までが1トランザクションで行われます。
func (h *AssignmentHandler) GradeAssignment(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GradeAssignment"))

	assignmentID, appErr := parseUUIDParam(r, "assignment_id")
	if appErr != nil {
		logger.Warn("Invalid assignment ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("assignment_id", assignmentID.String()))

	var req model.GradeAssignmentRequest
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

	assignment, err := h.service.GradeAssignment(r.Context(), assignmentID, &req)
	if err != nil {
		logger.Error("Error grading assignment in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Assignment graded successfully", slog.Int("rating", req.Rating))
	webutil.RespondWithJSON(w, http.StatusOK, assignment, logger)
}

// parseDateRange は from / to クエリパラメータを検証して返します。
func parseDateRange(r *http.Request) (string, string, *model.AppError) {
	fromDate := r.URL.Query().Get("from")
	toDate := r.URL.Query().Get("to")
	if !dateParamPattern.MatchString(fromDate) {
		return "", "", model.NewAppError("INVALID_QUERY_PARAM", "fromはYYYY-MM-DD形式で指定してください。", "from", model.ErrInvalidInput)
	}
	if !dateParamPattern.MatchString(toDate) {
		return "", "", model.NewAppError("INVALID_QUERY_PARAM", "toはYYYY-MM-DD形式で指定してください。", "to", model.ErrInvalidInput)
	}
	if toDate < fromDate {
		return "", "", model.NewAppError("INVALID_QUERY_PARAM", "toはfrom以降の日付にしてください。", "to", model.ErrInvalidInput)
	}
	return fromDate, toDate, nil
}
