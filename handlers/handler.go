package handlers

import (
	"sponsorship_console/config"
	"sponsorship_console/middleware"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler serves the admin console and the beneficiary portal. Every page
// is a thin view over the backend; nothing but sessions is stored locally.
type Handler struct {
	cfg      *config.Config
	backend  *services.Backend
	sessions *services.SessionStore
	lists    *services.ListRegistry
	storage  services.StorageProvider
	logger   *zap.Logger
	limiter  *middleware.RateLimiter
	now      func() time.Time
}

// New wires a Handler
func New(cfg *config.Config, backend *services.Backend, sessions *services.SessionStore, lists *services.ListRegistry, storage services.StorageProvider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:      cfg,
		backend:  backend,
		sessions: sessions,
		lists:    lists,
		storage:  storage,
		logger:   logger,
		limiter:  middleware.NewLoginRateLimiter(),
		now:      time.Now,
	}
}

func (h *Handler) secure() bool {
	return h.cfg.IsProduction()
}

// Register mounts every route on e
func (h *Handler) Register(e *echo.Echo) {
	// Public auth routes
	auth := e.Group("/auth")
	{
		auth.POST("/login", h.LoginHandler, h.limiter.Middleware())
		auth.POST("/signup", h.SignupHandler, h.limiter.Middleware())
		auth.GET("/oauth/start", h.OAuthStartHandler)
		auth.GET("/oauth/callback", h.OAuthCallbackHandler, middleware.VerifyOAuthState(h.secure()))
	}

	// Any signed-in user
	protected := e.Group("")
	protected.Use(middleware.RequireSession(h.sessions, h.secure()))
	{
		protected.POST("/auth/logout", h.LogoutHandler)
		protected.POST("/auth/change-password", h.ChangePasswordHandler)
		protected.GET("/auth/me", h.MeHandler)
	}

	// Admin console
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", h.AdminDashboardHandler)

		admin.GET("/beneficiaries", h.BeneficiariesHandler)
		admin.GET("/beneficiaries/live", h.BeneficiariesLiveHandler)
		admin.GET("/beneficiaries/summary", h.BeneficiarySummaryHandler)
		admin.POST("/beneficiaries", h.CreateBeneficiaryHandler)
		admin.GET("/beneficiaries/:id", h.BeneficiaryDetailHandler)
		admin.PUT("/beneficiaries/:id", h.UpdateBeneficiaryHandler)
		admin.PATCH("/beneficiaries/:id/status", h.BeneficiaryStatusHandler)
		admin.POST("/beneficiaries/:id/welcome", h.SendWelcomeHandler)
		admin.POST("/beneficiaries/:id/message", h.MessageBeneficiaryHandler)
		admin.POST("/beneficiaries/:id/level", h.AssignLevelHandler)

		admin.GET("/receipts", h.ReceiptsHandler)
		admin.GET("/receipts/live", h.ReceiptsLiveHandler)
		admin.POST("/receipts/:id/verify", h.VerifyReceiptHandler)
		admin.POST("/receipts/:id/reject", h.RejectReceiptHandler)
		admin.GET("/receipts/:id/download", h.DownloadReceiptHandler)

		admin.GET("/reviews", h.PendingReviewsHandler)
		admin.POST("/documents/:id/review", h.ReviewDocumentHandler)

		admin.GET("/financial-aid", h.FinancialAidHandler)
		admin.GET("/financial-aid/live", h.FinancialAidLiveHandler)

		admin.GET("/education", h.EducationLevelsHandler)
		admin.GET("/education/dashboard", h.EducationDashboardHandler)
		admin.GET("/education/levels/:key", h.LevelDetailHandler)
		admin.PUT("/education/levels/:key", h.UpdateLevelHandler)
		admin.GET("/education/levels/:key/grades", h.GradesForLevelHandler)
		admin.POST("/education/grades", h.CreateGradeHandler)
		admin.GET("/education/grades/:id/students", h.GradeStudentsHandler)
		admin.GET("/education/grades/:id/students/live", h.GradeStudentsLiveHandler)
		admin.GET("/education/grades/:id/export", h.ExportGradeStudentsHandler)

		admin.GET("/statements", h.StatementsHandler)
		admin.GET("/statements/live", h.StatementsLiveHandler)
		admin.GET("/statements/summary", h.StatementSummaryHandler)
		admin.GET("/statements/years", h.StatementYearsHandler)
		admin.GET("/statements/export", h.ExportStatementsHandler)
		admin.PUT("/statements/:id", h.UpdateStatementHandler)
		admin.GET("/statements/:id/download", h.DownloadStatementHandler)

		admin.GET("/notifications", h.NotificationsHandler)
		admin.POST("/notifications/:id/read", h.MarkNotificationReadHandler)
		admin.POST("/messages", h.SendAdminMessageHandler)

		admin.GET("/audit-logs", h.AuditLogsHandler)
	}

	// Beneficiary portal
	portal := protected.Group("/portal")
	portal.Use(middleware.RequireRole(models.RoleBeneficiary))
	{
		portal.GET("/dashboard", h.PortalDashboardHandler)

		portal.GET("/academics", h.AcademicSummaryHandler)
		portal.GET("/academics/grade-guide", h.GradeGuideHandler)
		portal.GET("/academics/subjects/:subject", h.SubjectHistoryHandler)
		portal.GET("/academics/report-cards/:id", h.DownloadReportCardHandler)

		portal.GET("/statements", h.StatementsHandler)
		portal.GET("/statements/live", h.StatementsLiveHandler)
		portal.GET("/statements/summary", h.PortalStatementSummaryHandler)
		portal.GET("/statements/years", h.StatementYearsHandler)
		portal.GET("/statements/:id/download", h.DownloadStatementHandler)

		portal.GET("/receipts", h.ReceiptsHandler)
		portal.GET("/receipts/live", h.ReceiptsLiveHandler)
		portal.GET("/receipts/summary", h.PaymentSummaryHandler)
		portal.GET("/receipts/methods", h.PaymentMethodsHandler)
		portal.POST("/receipts", h.UploadReceiptHandler)
		portal.GET("/receipts/:id/download", h.DownloadReceiptHandler)

		portal.GET("/documents", h.DocumentsHandler)
		portal.GET("/documents/types", h.DocumentTypesHandler)
		portal.POST("/documents", h.UploadDocumentHandler)
		portal.DELETE("/documents/:id", h.DeleteDocumentHandler)
		portal.GET("/documents/:id/download", h.DownloadDocumentHandler)

		portal.GET("/messages", h.InboxHandler)
		portal.GET("/messages/:id", h.ViewMessageHandler)
		portal.DELETE("/messages/:id", h.DeleteMessageHandler)
		portal.POST("/messages", h.SendMessageHandler)

		portal.GET("/profile", h.ProfileHandler)
		portal.PUT("/profile", h.UpdateProfileHandler)
	}
}
