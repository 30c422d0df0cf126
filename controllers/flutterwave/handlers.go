package flutterwaveControllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	orderControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/order"
	"github.com/AaronTech112/Soft-Boy-Crowm/logging"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

// WebhookEvent is the gateway's push notification body.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		TxRef    string      `json:"tx_ref"`
		ID       json.Number `json:"id"`
		Status   string      `json:"status"`
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	} `json:"data"`
}

// POST /payment/initiate/:txRef
//
// Hands the pending transaction off to the gateway and returns the
// hosted payment link the customer should be sent to.
func InitiatePaymentHandler(db *gorm.DB, client *Client, cfg config.Payment) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		txRef := c.Param("txRef")

		var trn models.Transaction
		if err := db.Preload("User").
			Where("tx_ref = ? AND user_id = ?", txRef, userID).
			First(&trn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if trn.Settled() {
			c.JSON(http.StatusConflict, gin.H{"error": "transaction is already settled"})
			return
		}

		link, err := client.InitiatePayment(c.Request.Context(), trn.TxRef, trn.Amount, cfg.Currency, cfg.RedirectURL, Customer{
			Email: trn.User.Email,
			Name:  strings.TrimSpace(trn.User.FirstName + " " + trn.User.LastName),
			Phone: trn.User.Phone,
		})
		if err != nil {
			logging.From(c).Error("payment initiation failed", "tx_ref", trn.TxRef, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payment_link": link,
			"tx_ref":       trn.TxRef,
		})
	}
}

// POST /payment/webhook
//
// Push-side reconciliation. Always 200 for processed events and benign
// no-ops, 404 for an unknown tx_ref, 400 for malformed bodies and stock
// shortfalls.
func WebhookHandler(pipeline *orderControllers.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event WebhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed webhook body"})
			return
		}
		if event.Data.TxRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tx_ref"})
			return
		}

		log := logging.From(c).With("tx_ref", event.Data.TxRef, "event", event.Event)

		if event.Event == "charge.completed" && chargeStatusOK(event.Data.Status) {
			outcome, err := pipeline.Reconcile(c.Request.Context(), event.Data.TxRef, event.Data.ID.String())
			switch {
			case errors.Is(err, models.ErrTransactionNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			case errors.Is(err, models.ErrInsufficientStock):
				log.Warn("reconciliation declined on stock", "error", err)
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case err != nil:
				log.Warn("reconciliation did not approve", "error", err)
				c.JSON(http.StatusOK, gin.H{"message": "event processed"})
			case outcome == orderControllers.OutcomeApproved:
				log.Info("order approved via webhook")
				c.JSON(http.StatusOK, gin.H{"message": "order finalized"})
			default:
				c.JSON(http.StatusOK, gin.H{"message": "event processed"})
			}
			return
		}

		if strings.EqualFold(event.Data.Status, "failed") || strings.EqualFold(event.Data.Status, "cancelled") {
			pipeline.Decline(event.Data.TxRef)
			log.Info("transaction declined via webhook", "status", event.Data.Status)
		}
		c.JSON(http.StatusOK, gin.H{"message": "event processed"})
	}
}

// GET /payment/callback?status=&tx_ref=&transaction_id=
//
// Pull-side reconciliation: the customer lands here after the hosted
// payment page. Same logic, same terminal outcome as the webhook.
func CallbackHandler(pipeline *orderControllers.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		txRef := c.Query("tx_ref")
		externalID := c.Query("transaction_id")

		log := logging.From(c).With("tx_ref", txRef, "status", status)

		if txRef == "" {
			redirectFailure(c, "Transaction not found.")
			return
		}

		if !chargeStatusOK(status) {
			if strings.EqualFold(status, "cancelled") || strings.EqualFold(status, "failed") {
				pipeline.Decline(txRef)
				redirectFailure(c, "Payment was "+strings.ToLower(status)+".")
				return
			}
			redirectFailure(c, "Payment failed with status: "+status+". Please try again.")
			return
		}

		pipeline.MarkProcessing(txRef, externalID)

		outcome, err := pipeline.Reconcile(c.Request.Context(), txRef, externalID)
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			redirectFailure(c, "Transaction not found.")
		case err != nil:
			log.Warn("callback reconciliation failed", "error", err)
			redirectFailure(c, "Payment verification failed.")
		case outcome == orderControllers.OutcomeApproved, outcome == orderControllers.OutcomeNoop:
			redirectSuccess(c, txRef)
		case outcome == orderControllers.OutcomeAlreadyDeclined:
			redirectFailure(c, "This payment was declined.")
		default:
			redirectFailure(c, "Payment verification failed.")
		}
	}
}

func chargeStatusOK(status string) bool {
	return strings.EqualFold(status, "successful") || strings.EqualFold(status, "completed")
}

func redirectSuccess(c *gin.Context, txRef string) {
	target := os.Getenv("CHECKOUT_SUCCESS_URL")
	if target == "" {
		target = "/thank-you"
	}
	c.Redirect(http.StatusSeeOther, target+"?tx_ref="+url.QueryEscape(txRef))
}

func redirectFailure(c *gin.Context, reason string) {
	target := os.Getenv("CHECKOUT_FAILURE_URL")
	if target == "" {
		target = "/cart"
	}
	c.Redirect(http.StatusSeeOther, target+"?error="+url.QueryEscape(reason))
}
