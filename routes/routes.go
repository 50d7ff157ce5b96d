package routes

import (
	"net/http"
	"time"

	"edunest/handlers"
	"edunest/middleware"
	"edunest/models"
	"edunest/services/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	adminRoles = []string{models.RoleAdmin, models.RolePrincipal, models.RoleSuperadmin}
	staffRoles = []string{models.RoleTeacher, models.RoleStaff, models.RoleAdmin, models.RolePrincipal, models.RoleSuperadmin}
)

// RegisterRoutes wires the shell's full route table: the public auth
// surface, the role-gated pages and the push/notification endpoints.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, sessions session.SessionService) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Public surface.
	r.POST("/login", h.Login)
	r.GET("/login", h.Page("login"))
	r.POST("/first-reset", h.FirstReset)

	// Everything below needs the strict token+userId check.
	app := r.Group("/")
	app.Use(middleware.RequireAuth(sessions))

	app.GET("", rootRedirect(sessions))
	app.POST("/logout", h.Logout)
	app.GET("/session", h.Session)
	app.GET("/settings", h.Page("settings"))
	app.GET("/comms", h.Page("comms"))

	// Notifications.
	app.GET("/notifications", h.ListNotifications)
	app.POST("/notifications/mark-read", h.MarkNotificationRead)
	app.POST("/notifications/clear", h.ClearNotifications)

	// Push lifecycle and simulated platform ingress.
	pushGroup := app.Group("/push")
	{
		pushGroup.POST("/deliver", h.PushDeliver)
		pushGroup.POST("/tap", h.PushTap)
		pushGroup.POST("/clear", h.PushTrayClear)
		pushGroup.POST("/test", h.PushTest)
		pushGroup.GET("/token", h.PushToken)
	}

	// Cached master data.
	app.GET("/masterdata/classes", h.MasterClasses)
	app.GET("/masterdata/subjects", h.MasterSubjects)

	// Admin tier.
	admin := app.Group("/")
	admin.Use(middleware.RequireRole(sessions, adminRoles...))
	{
		admin.GET("/dashboard", h.Page("dashboard"))
		admin.GET("/admin/add-student", h.Page("add-student"))
		admin.GET("/admin/bulk-add-students", h.Page("bulk-add-students"))
		admin.GET("/admin/update-student", h.Page("update-student"))
		admin.GET("/admin/upload-fees", h.Page("upload-fees"))
		admin.GET("/admin/comms", h.Page("manage-comms"))
		admin.GET("/admin/add-staff", h.Page("add-staff"))
		admin.GET("/admin/manage-staff", h.Page("manage-staff"))
		admin.GET("/admin/master-data-setup", h.Page("master-data-setup"))
	}

	// Staff tier (admins included).
	staff := app.Group("/staff")
	staff.Use(middleware.RequireRole(sessions, staffRoles...))
	{
		staff.GET("/home", h.Page("staff-home"))
		staff.GET("/upload-attendance", h.Page("upload-attendance"))
		staff.GET("/upload-marks", h.Page("upload-marks"))
		staff.GET("/student-details", h.Page("student-details"))
		staff.GET("/assign-homework", h.Page("assign-homework"))
	}

	// Student tier.
	student := app.Group("/student")
	student.Use(middleware.RequireRole(sessions, models.RoleStudent))
	{
		student.GET("/home", h.Page("student-home"))
		student.GET("/my-details", h.Page("my-details"))
		student.GET("/assigned-work", h.Page("assigned-work"))
	}

	// Unmatched paths land on the role's own landing route.
	r.NoRoute(func(c *gin.Context) {
		if !sessions.IsFullyAuthenticated() {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		c.Redirect(http.StatusFound, middleware.DefaultLanding(sessions.Role()))
	})
}

// rootRedirect sends an authenticated "/" to the role landing route.
func rootRedirect(sessions session.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, middleware.DefaultLanding(sessions.Role()))
	}
}
