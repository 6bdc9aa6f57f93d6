package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mathscrusader/paygo-sub001/internal/middleware"
)

type RouteDeps struct {
	JWTSecret  string
	Auth       *AuthHandler
	Google     *GoogleOAuthHandler
	Settlement *SettlementHandler
	Referral   *ReferralHandler
}

func RegisterRoutes(app *fiber.App, d RouteDeps) {
	api := app.Group("/api")

	// public
	api.Post("/auth/register", d.Auth.Register)
	api.Post("/auth/login", d.Auth.Login)
	api.Post("/auth/logout", d.Auth.Logout)
	if d.Google != nil {
		api.Get("/auth/google/start", d.Google.GoogleStart)
		api.Get("/auth/google/callback", d.Google.GoogleCallback)
	}

	// admin only: one gate in front of every mutating settlement route
	admin := api.Group("/admin",
		middleware.JWTFromCookie(d.JWTSecret),
		middleware.AttachJWTLocals(),
		middleware.RequireRoles("admin"),
	)

	admin.Get("/transactions/pending", d.Settlement.ListPendingTransactions)
	admin.Post("/transactions/:id/decision", d.Settlement.DecideTransaction)

	admin.Get("/withdrawals/pending", d.Settlement.ListPendingWithdrawals)
	admin.Post("/withdrawals/:id/decision", d.Settlement.DecideWithdrawal)

	admin.Get("/rewards/pending", d.Settlement.ListPendingRewards)
	admin.Post("/rewards/:id/paid", d.Settlement.MarkRewardPaid)

	admin.Post("/referrals/register", d.Referral.Register)
}
