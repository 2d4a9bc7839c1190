package api

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/railbook/railbook_core/internal/cache"
	"github.com/railbook/railbook_core/internal/catalog"
	"github.com/railbook/railbook_core/internal/middleware"
	"github.com/railbook/railbook_core/internal/models"
	"github.com/railbook/railbook_core/internal/pricing"
	"github.com/railbook/railbook_core/internal/session"
)

// SessionCreate handles POST /v1/sessions
func SessionCreate(c *fiber.Ctx) error {
	sel, err := session.Create(c.Context())
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(201).JSON(sel)
}

// SessionGet handles GET /v1/sessions/:id
func SessionGet(c *fiber.Ctx) error {
	sel, ok := loadSession(c)
	if !ok {
		return nil
	}
	return c.JSON(sel)
}

// SessionAction handles POST /v1/sessions/:id/actions
//
// The request body is one dispatch action; the updated selection is
// persisted before it is returned.
func SessionAction(c *fiber.Ctx) error {
	var action session.Action
	if err := c.BodyParser(&action); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid action body"})
	}

	sel, err := session.Dispatch(c.Context(), c.Params("id"), action)
	if errors.Is(err, session.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(sel)
}

// SummaryResponse is the response for the summary endpoint
type SummaryResponse struct {
	Totals       pricing.Totals          `json:"totals"`
	TotalDisplay string                  `json:"total_display"`
	Breakdown    []pricing.BreakdownItem `json:"breakdown"`
	Passengers   models.PassengerCounts  `json:"passengers"`
	PaymentError bool                    `json:"payment_error"`
}

// SessionSummary handles GET /v1/sessions/:id/summary
//
// Always succeeds for an existing session: incomplete selections produce
// zero totals, validation belongs to the booking pages.
func SessionSummary(c *fiber.Ctx) error {
	sel, ok := loadSession(c)
	if !ok {
		return nil
	}

	totals := pricing.ComputeTotals(sel, catalog.GetCatalog())

	return c.JSON(SummaryResponse{
		Totals:       totals,
		TotalDisplay: pricing.FormatAmount(totals.Total),
		Breakdown:    pricing.BuildBreakdown(totals, sel.Passengers),
		Passengers:   sel.Passengers,
		PaymentError: sel.PaymentError,
	})
}

// PaymentRequest is the scripted payment form
type PaymentRequest struct {
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// PaymentResponse is returned on a successful scripted payment
type PaymentResponse struct {
	BookingRef   string         `json:"booking_ref"`
	Totals       pricing.Totals `json:"totals"`
	TotalDisplay string         `json:"total_display"`
	PaidAt       string         `json:"paid_at"`
}

// cardOutcome is the result of the scripted card check
type cardOutcome int

const (
	cardAccepted cardOutcome = iota
	cardIncomplete
	cardDeclined
)

// checkCard classifies a payment attempt. There is no gateway behind
// this: any well-formed card is accepted except numbers ending in 0000,
// which always decline.
func checkCard(req PaymentRequest) cardOutcome {
	digits := strings.ReplaceAll(req.CardNumber, " ", "")
	if len(digits) < 12 || req.CardHolder == "" || req.CVV == "" {
		return cardIncomplete
	}
	if strings.HasSuffix(digits, "0000") {
		return cardDeclined
	}
	return cardAccepted
}

// paymentBlocker names the selection gap that prevents paying, or ""
// when the selection is payable
func paymentBlocker(sel *models.TripSelection) string {
	if sel.OutboundID == "" {
		return "no journey selected"
	}
	if sel.FareID == "" {
		return "no fare selected"
	}
	return ""
}

// SessionPayment handles POST /v1/sessions/:id/payment
//
// Declines set the payment-error flag for the UI to render; a later
// success clears it.
func SessionPayment(c *fiber.Ctx) error {
	sel, ok := loadSession(c)
	if !ok {
		return nil
	}

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payment body"})
	}

	if blocker := paymentBlocker(sel); blocker != "" {
		return c.Status(409).JSON(fiber.Map{"error": blocker})
	}

	ctx := c.Context()

	switch checkCard(req) {
	case cardIncomplete:
		return c.Status(400).JSON(fiber.Map{"error": "incomplete card details"})
	case cardDeclined:
		sel.PaymentError = true
		if err := session.Save(ctx, sel); err != nil {
			log.Printf("Failed to persist declined payment state: %v", err)
		}
		return c.Status(402).JSON(fiber.Map{
			"error":   "payment_declined",
			"message": "The payment was declined by the card issuer",
		})
	}

	sel.PaymentError = false
	if err := session.Save(ctx, sel); err != nil {
		log.Printf("Failed to persist payment state: %v", err)
	}

	totals := pricing.ComputeTotals(sel, catalog.GetCatalog())

	return c.JSON(PaymentResponse{
		BookingRef:   newBookingRef(),
		Totals:       totals,
		TotalDisplay: pricing.FormatAmount(totals.Total),
		PaidAt:       time.Now().UTC().Format(time.RFC3339),
	})
}

// Stats handles GET /v1/stats
func Stats(c *fiber.Ctx) error {
	rdb, err := cache.GetClient()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"date":   time.Now().Format("2006-01-02"),
		"funnel": middleware.FunnelCounts(c.Context(), rdb),
	})
}

// loadSession resolves the :id param; on failure the error response has
// already been written and ok is false
func loadSession(c *fiber.Ctx) (*models.TripSelection, bool) {
	sel, err := session.Get(c.Context(), c.Params("id"))
	if errors.Is(err, session.ErrNotFound) {
		c.Status(404).JSON(fiber.Map{"error": "session not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("Failed to load session: %v", err)
		c.Status(500).JSON(fiber.Map{"error": "internal server error"})
		return nil, false
	}
	return sel, true
}

// newBookingRef generates a display reference: RLB-YYYY-NNNNN
func newBookingRef() string {
	return fmt.Sprintf("RLB-%d-%05d", time.Now().Year(), rand.Intn(100000))
}
