package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/logging"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

// VerifyResult is the gateway's ground truth for a charge.
type VerifyResult struct {
	Status   string
	Amount   decimal.Decimal
	Currency string
}

// Verifier fetches the gateway's record of a charge by its external id.
type Verifier interface {
	Verify(ctx context.Context, externalID string) (VerifyResult, error)
}

// Notifier sends the order confirmation. Failures are logged, never
// propagated: a lost email must not roll back a settled order.
type Notifier interface {
	SendOrderConfirmation(trn models.Transaction) error
}

type Outcome int

const (
	OutcomeNoop            Outcome = iota // already approved, nothing done
	OutcomeApproved                       // order finalized
	OutcomeDeclined                       // verification failed or stock ran out
	OutcomeAlreadyDeclined                // replay against a declined transaction
)

// Pipeline reconciles gateway callbacks against pending transactions.
// Both entry points (webhook push and redirect pull) run the same
// Reconcile; idempotency comes from guarded status updates, not from
// in-process state.
type Pipeline struct {
	DB       *gorm.DB
	Verifier Verifier
	Currency string // single supported settlement currency
	Notifier Notifier
}

var errAlreadySettled = errors.New("transaction already settled")

// Reconcile looks up the transaction, verifies the charge with the
// gateway and, on an exact status/amount/currency match, finalizes the
// order: stock is decremented and OrderItems created atomically, the
// cart is emptied and the transaction approved. Any mismatch or gateway
// failure declines the transaction without touching stock. Invoking it
// again for a settled transaction is a no-op.
func (p *Pipeline) Reconcile(ctx context.Context, txRef, externalID string) (Outcome, error) {
	var trn models.Transaction
	if err := p.DB.First(&trn, "tx_ref = ?", txRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OutcomeNoop, models.ErrTransactionNotFound
		}
		return OutcomeNoop, err
	}

	if trn.Settled() {
		return settledOutcome(trn.Status), nil
	}

	res, err := p.Verifier.Verify(ctx, externalID)
	if err != nil {
		p.Decline(txRef)
		return OutcomeDeclined, fmt.Errorf("%w: %v", models.ErrVerificationFailed, err)
	}
	if !chargeSucceeded(res.Status) {
		p.Decline(txRef)
		return OutcomeDeclined, fmt.Errorf("%w: gateway status %q", models.ErrVerificationFailed, res.Status)
	}
	if !res.Amount.Equal(trn.Amount) {
		p.Decline(txRef)
		return OutcomeDeclined, fmt.Errorf("%w: verified %s, expected %s",
			models.ErrAmountMismatch, res.Amount, trn.Amount)
	}
	if !strings.EqualFold(res.Currency, p.Currency) {
		p.Decline(txRef)
		return OutcomeDeclined, fmt.Errorf("%w: got %q", models.ErrCurrencyMismatch, res.Currency)
	}

	err = p.finalize(trn, externalID)
	switch {
	case errors.Is(err, errAlreadySettled):
		// lost the claim to a concurrent callback; report its verdict
		if lookErr := p.DB.First(&trn, "tx_ref = ?", txRef).Error; lookErr != nil {
			return OutcomeNoop, lookErr
		}
		return settledOutcome(trn.Status), nil
	case errors.Is(err, models.ErrInsufficientStock):
		p.Decline(txRef)
		return OutcomeDeclined, err
	case err != nil:
		// Transaction is still pending/processing; the gateway will retry.
		return OutcomeNoop, err
	}

	p.afterApproval(txRef)
	return OutcomeApproved, nil
}

// finalize performs the one pending→approved transition. The guarded
// update is the idempotency gate: a concurrent or duplicate callback
// finds zero rows and backs out. Stock checks run in two phases so a
// shortfall on any line rolls back the entire pass.
func (p *Pipeline) finalize(trn models.Transaction, externalID string) error {
	return p.DB.Transaction(func(tx *gorm.DB) error {
		claimed := tx.Model(&models.Transaction{}).
			Where("tx_ref = ? AND transaction_status IN ?", trn.TxRef,
				[]models.TransactionStatus{models.TransactionPending, models.TransactionProcessing}).
			Updates(map[string]interface{}{
				"transaction_status": models.TransactionApproved,
				"flw_transaction_id": externalID,
			})
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return errAlreadySettled
		}

		var cart models.Cart
		err := tx.Where("user_id = ?", trn.UserID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing left to fulfill
		}
		if err != nil {
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", cart.CartID).Find(&items).Error; err != nil {
			return err
		}

		// Phase one: feasibility of every line before any stock moves.
		for _, item := range items {
			if item.Product.InStock < item.Quantity {
				return shortfall(item.Product)
			}
		}

		// Phase two: compare-and-swap decrements guard against concurrent
		// checkouts that slipped in between the phases.
		for _, item := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND in_stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("in_stock", gorm.Expr("in_stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return shortfall(item.Product)
			}

			orderItem := models.OrderItem{
				TransactionID: trn.ID,
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				Size:          item.Size,
				Color:         item.Color,
				Price:         item.Product.Price, // price at purchase
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
}

// MarkProcessing records the gateway transaction id when the customer
// returns via redirect, before verification has run. Only a pending
// transaction moves; settled ones are left alone.
func (p *Pipeline) MarkProcessing(txRef, externalID string) {
	p.DB.Model(&models.Transaction{}).
		Where("tx_ref = ? AND transaction_status = ?", txRef, models.TransactionPending).
		Updates(map[string]interface{}{
			"transaction_status": models.TransactionProcessing,
			"flw_transaction_id": externalID,
		})
}

// Decline settles the transaction as declined unless it already reached
// a terminal state. No stock is touched. Reports whether this call
// performed the transition.
func (p *Pipeline) Decline(txRef string) bool {
	res := p.DB.Model(&models.Transaction{}).
		Where("tx_ref = ? AND transaction_status IN ?", txRef,
			[]models.TransactionStatus{models.TransactionPending, models.TransactionProcessing}).
		Update("transaction_status", models.TransactionDeclined)
	return res.Error == nil && res.RowsAffected > 0
}

func (p *Pipeline) afterApproval(txRef string) {
	var full models.Transaction
	if err := p.DB.Preload("OrderItems").Preload("OrderItems.Product").Preload("User").
		First(&full, "tx_ref = ?", txRef).Error; err != nil {
		logging.New("order").Error("load approved transaction", "tx_ref", txRef, "error", err)
		return
	}

	BroadcastApproved(full)

	if p.Notifier != nil {
		go func() {
			if err := p.Notifier.SendOrderConfirmation(full); err != nil {
				logging.New("order").Warn("order confirmation failed", "tx_ref", txRef, "error", err)
			}
		}()
	}
}

// settledOutcome maps a terminal status to the no-op outcome a replay
// should report. Approved replays are benign; declined ones must not be
// mistaken for success by either delivery path.
func settledOutcome(status models.TransactionStatus) Outcome {
	if status == models.TransactionDeclined {
		return OutcomeAlreadyDeclined
	}
	return OutcomeNoop
}

func chargeSucceeded(status string) bool {
	switch strings.ToLower(status) {
	case "successful", "completed":
		return true
	}
	return false
}

func shortfall(p models.Product) error {
	return fmt.Errorf("%w: only %d units of %s available", models.ErrInsufficientStock, p.InStock, p.Name)
}
