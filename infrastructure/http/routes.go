package http

import (
	"github.com/go-chi/chi/v5"

	"sevabook/adminpanel"
	"sevabook/annadanam"
	"sevabook/login"
	"sevabook/outreach"
	"sevabook/pooja"
	"sevabook/profile"
	"sevabook/volunteer"
)

// RegisterRoutes wires the whole API under /api.
func (s *Server) RegisterRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.WithIdentityMiddleware)

		r.Post("/auth/register", login.RegisterCommandHandler(s.DB, s.Auth, s.Config))
		r.Post("/auth/login", login.LoginCommandHandler(s.DB, s.Auth, s.Config))

		// Public reads and forms.
		r.Get("/annadanam/slots", annadanam.SlotsQueryHandler(s.DB))
		r.Get("/annadanam/pass", annadanam.PassQueryHandler(s.DB))
		r.Get("/annadanam/pass.pdf", annadanam.PassPDFQueryHandler(s.DB, s.Config))
		r.Get("/pooja/sessions", pooja.SessionsQueryHandler(s.DB))
		r.Get("/pooja/pass", pooja.PassQueryHandler(s.DB))
		r.Get("/pooja/pass.pdf", pooja.PassPDFQueryHandler(s.DB, s.Config))
		r.Post("/donations", outreach.CreateDonationCommandHandler(s.DB))
		r.Post("/contact", outreach.CreateContactCommandHandler(s.DB))
		r.Get("/realtime", s.Hub.Handler())

		// Signed-in devotees.
		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuthMiddleware)
			r.Post("/annadanam/reserve", annadanam.ReserveCommandHandler(s.DB, s.Audit, s.Config, s.Hub, s.Mail))
			r.Post("/pooja/reserve", pooja.ReserveCommandHandler(s.DB, s.Audit, s.Config, s.Hub, s.Mail))
			r.Post("/volunteer", volunteer.SignupCommandHandler(s.DB, s.Audit, s.Config, s.Mail))
			r.Get("/profile", profile.GetProfileQueryHandler(s.DB))
			r.Put("/profile/identity", profile.UpdateIdentityCommandHandler(s.DB, s.Audit))
		})

		// Admin console.
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.RequireAdminMiddleware)
			r.Post("/annadanam/list", adminpanel.ListAnnadanamCommandHandler(s.DB))
			r.Get("/annadanam/list.pdf", adminpanel.AnnadanamListPDFQueryHandler(s.DB))
			r.Post("/annadanam/attendance/mark", annadanam.MarkAttendanceCommandHandler(s.DB, s.Audit, s.Hub))
			r.Post("/pooja/list", adminpanel.ListPoojaCommandHandler(s.DB))
			r.Get("/pooja/list.pdf", adminpanel.PoojaListPDFQueryHandler(s.DB))
			r.Post("/pooja/attendance/mark", pooja.MarkAttendanceCommandHandler(s.DB, s.Audit, s.Hub))
			r.Get("/pooja/blocked", pooja.GetBlockedQueryHandler(s.DB))
			r.Put("/pooja/blocked", pooja.UpdateBlockedCommandHandler(s.DB, s.Audit))
			r.Post("/volunteer/list", volunteer.ListQueryHandler(s.DB))
			r.Post("/export", adminpanel.ExportCommandHandler(s.DB, s.Audit))
		})
	})
}
