package router

import (
	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/internal/container"
	"github.com/oksasatya/go-blood-donation/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-blood-donation/internal/interface/http"
	"github.com/oksasatya/go-blood-donation/internal/router/modules"
)

// Services groups the application layer built from the container.
type Services struct {
	Users         *application.UserService
	Notifications *application.NotificationService
	Requests      *application.BloodRequestService
	Donations     *application.DonationService
	Donors        *application.DonorService
	Dashboard     *application.DashboardService
	Admin         *application.AdminService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	// a nil *RabbitPublisher must not become a non-nil interface
	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var index application.DonorIndex
	if es := container.GetES(); es != nil {
		index = search.NewDonorIndex(es, cfg.ESDonorsIndex)
	}

	notifier := application.NewNotificationService(store, pub, logger, cfg.MailSendEnabled, cfg.DashboardURL)
	return Services{
		Users: application.NewUserService(
			store.Users(),
			container.GetJWT(),
			container.GetGCS(),
			cfg.GCSBucket,
			container.GetRedis(),
			logger,
		),
		Notifications: notifier,
		Requests:      application.NewBloodRequestService(store, notifier, logger, cfg.NotifyVerifiedDonorsOnly),
		Donations:     application.NewDonationService(store, notifier, logger),
		Donors:        application.NewDonorService(store, index, logger),
		Dashboard:     application.NewDashboardService(store, container.GetRedis(), cfg.RecentRequestsLimit),
		Admin:         application.NewAdminService(store, notifier, container.GetRedis(), logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := buildServices()
	guard := modules.Guard{Redis: container.GetRedis(), JWT: container.GetJWT()}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure), guard))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger), guard))
	r.Add(modules.NewDonorModule(handlers.NewDonorHandler(svc.Donors, svc.Donations, logger), guard))
	r.Add(modules.NewRequestModule(handlers.NewRequestHandler(svc.Requests, svc.Donations, logger), guard))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(svc.Notifications, logger), guard))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(svc.Dashboard, logger), guard))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(svc.Admin, logger), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
