package router

import (
	"net/http"

	"clubsphere/internal/auth"
	"clubsphere/internal/handler"
	"clubsphere/internal/middleware"
	"clubsphere/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Users         *service.UserService
	Clubs         *service.ClubService
	Events        *service.EventService
	Memberships   *service.MembershipService
	Registrations *service.RegistrationService
	Payments      *service.PaymentService
	Dashboard     *service.DashboardService
}

func New(resolver middleware.IdentityResolver, s Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.SecureHeaders())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	authn := middleware.Authenticate(resolver)
	admin := middleware.Require(auth.AllowAdmin)
	staff := middleware.Require(auth.Staff)

	user := handler.NewUserHandler(s.Users)
	club := handler.NewClubHandler(s.Clubs)
	event := handler.NewEventHandler(s.Events)
	membership := handler.NewMembershipHandler(s.Memberships)
	registration := handler.NewRegistrationHandler(s.Registrations)
	payment := handler.NewPaymentHandler(s.Payments)
	dashboard := handler.NewDashboardHandler(s.Dashboard)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ClubSphere API is running...")
	})

	api := r.Group("/api")

	users := api.Group("/users", authn)
	{
		users.POST("/sync", user.Sync)
		users.GET("/me", user.Me)
		users.PUT("/profile", user.UpdateProfile)
		users.GET("", admin, user.List)
		users.PUT("/:id/role", admin, user.SetRole)
		users.DELETE("/:id", admin, user.Delete)
	}

	clubs := api.Group("/clubs")
	{
		clubs.GET("", club.List)
		clubs.GET("/admin/all", authn, staff, club.ListManaged)
		clubs.GET("/:id", club.Get)
		clubs.POST("", authn, staff, club.Create)
		clubs.PUT("/:id", authn, staff, club.Update)
		clubs.PUT("/:id/status", authn, admin, club.SetStatus)
		clubs.DELETE("/:id", authn, admin, club.Delete)
	}

	events := api.Group("/events")
	{
		events.GET("", event.List)
		events.GET("/:id", event.Get)
		events.POST("", authn, staff, event.Create)
		events.PUT("/:id", authn, staff, event.Update)
		events.DELETE("/:id", authn, staff, event.Delete)
	}

	memberships := api.Group("/memberships", authn)
	{
		memberships.POST("/join", membership.Join)
		memberships.POST("/leave", membership.Leave)
		memberships.GET("/check/:clubId", membership.Check)
		memberships.GET("/my", membership.Mine)
		memberships.GET("/club/:clubId", staff, membership.ClubMembers)
	}

	registrations := api.Group("/event-registrations", authn)
	{
		registrations.POST("/register", registration.Register)
		registrations.POST("/cancel", registration.Cancel)
		registrations.GET("/check/:eventId", registration.Check)
		registrations.GET("/my", registration.Mine)
		registrations.GET("/event/:eventId", staff, registration.ForEvent)
	}

	payments := api.Group("/payments", authn)
	{
		payments.POST("/create-intent", payment.CreateIntent)
		payments.POST("/confirm", payment.Confirm)
		payments.GET("/my-payments", payment.Mine)
		payments.GET("/all", staff, payment.All)
	}

	dash := api.Group("/dashboard", authn)
	{
		dash.GET("/admin/stats", admin, dashboard.Admin)
		dash.GET("/manager/stats", staff, dashboard.Manager)
	}

	return r
}
