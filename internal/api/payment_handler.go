package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"

	"fitpoint/gym-app/internal/config"
	"fitpoint/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentHandler struct {
	cfg               config.StripeConfig
	membershipService service.MembershipService
	catalogService    service.CatalogService
	clientService     service.ClientService
	log               zerolog.Logger
}

func NewPaymentHandler(
	cfg config.StripeConfig,
	membershipService service.MembershipService,
	catalogService service.CatalogService,
	clientService service.ClientService,
	log zerolog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		cfg:               cfg,
		membershipService: membershipService,
		catalogService:    catalogService,
		clientService:     clientService,
		log:               log.With().Str("component", "payments").Logger(),
	}
}

// priceToSen converts a package price in MYR to sen. Rounding, not
// truncation: 99.99 is 9999 sen, not 9998.
func priceToSen(price float64) int64 {
	return int64(math.Round(price * 100))
}

type CreateIntentRequest struct {
	MembershipPackageID string `json:"membershipPackageId" binding:"required"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	IntentID     string `json:"intentId"`
}

// CreateIntent opens a card payment for a membership package. The intent
// carries the client and package ids as metadata; activation happens only
// when the gateway confirms payment via webhook.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	if h.cfg.SecretKey == "" {
		abortWithError(c, http.StatusNotImplemented, "INTERNAL", "payment gateway not configured")
		return
	}

	clientUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify client from token")
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}
	packageID, err := primitive.ObjectIDFromHex(req.MembershipPackageID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid package ID format")
		return
	}

	eligible, err := h.membershipService.IsEligibleForActivation(c.Request.Context(), clientUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !eligible {
		respondServiceError(c, service.ErrNotEligible)
		return
	}

	client, err := h.clientService.GetProfile(c.Request.Context(), clientUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pkg, err := h.catalogService.GetPackageByID(c.Request.Context(), packageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stripe.Key = h.cfg.SecretKey
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(priceToSen(pkg.Price)),
		Currency: stripe.String(string(stripe.CurrencyMYR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"clientId":            client.ID.Hex(),
			"membershipPackageId": pkg.ID.Hex(),
			"paymentRef":          uuid.NewString(),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		h.log.Error().Err(err).Str("client", clientUID).Msg("payment intent creation failed")
		abortWithError(c, http.StatusBadGateway, "INTERNAL", "failed to create payment intent")
		return
	}

	c.JSON(http.StatusCreated, CreateIntentResponse{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
	})
}

// Webhook consumes Stripe events. Signature verification requires the raw
// body, so this route must not sit behind body-rewriting middleware.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	if h.cfg.WebhookSecret == "" {
		abortWithError(c, http.StatusNotImplemented, "INTERNAL", "payment webhook not configured")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "failed to read body")
		return
	}

	event, err := webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.cfg.WebhookSecret)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "UNAUTHORIZED", "signature verification failed")
		return
	}

	if event.Type == "payment_intent.succeeded" {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "malformed payment intent payload")
			return
		}
		if err := h.activateFromIntent(c, &intent); err != nil {
			// Non-retryable conditions still return 200 so Stripe stops
			// redelivering; the failure is logged for operator follow-up.
			h.log.Error().Err(err).Str("intent", intent.ID).Msg("membership activation from webhook failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentHandler) activateFromIntent(c *gin.Context, intent *stripe.PaymentIntent) error {
	clientID, err := primitive.ObjectIDFromHex(intent.Metadata["clientId"])
	if err != nil {
		return err
	}
	packageID, err := primitive.ObjectIDFromHex(intent.Metadata["membershipPackageId"])
	if err != nil {
		return err
	}
	paymentRef := intent.Metadata["paymentRef"]
	if paymentRef == "" {
		paymentRef = intent.ID
	}

	_, err = h.membershipService.Activate(c.Request.Context(), clientID, packageID, paymentRef)
	return err
}
