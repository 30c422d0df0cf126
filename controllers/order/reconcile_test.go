package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

type stubVerifier struct {
	result VerifyResult
	err    error
	calls  int
}

func (s *stubVerifier) Verify(ctx context.Context, externalID string) (VerifyResult, error) {
	s.calls++
	return s.result, s.err
}

func okVerifier(amount int64) *stubVerifier {
	return &stubVerifier{result: VerifyResult{
		Status:   "successful",
		Amount:   decimal.NewFromInt(amount),
		Currency: "NGN",
	}}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.GuestUser{},
		&models.Category{}, &models.Size{}, &models.Color{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Transaction{}, &models.OrderItem{},
	))
	return db
}

// seedOrder builds a user with a cart of qty units and a pending
// transaction priced at amount.
func seedOrder(t *testing.T, db *gorm.DB, stock, qty int, amount int64) (models.Transaction, models.Product) {
	t.Helper()

	user := models.User{ID: "user-1", Email: "shopper@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	category := models.Category{Name: "Apparel"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:       "Tee",
		Price:      decimal.NewFromInt(5000),
		CategoryID: category.ID,
		InStock:    stock,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&product).Error)

	userID := user.ID
	cart := models.Cart{UserID: &userID}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.CartID,
		ProductID: product.ID,
		Quantity:  qty,
		Size:      "M",
	}).Error)

	trn := models.Transaction{
		UserID: user.ID,
		Amount: decimal.NewFromInt(amount),
		TxRef:  "txn-" + t.Name(),
		Status: models.TransactionPending,
	}
	require.NoError(t, db.Create(&trn).Error)
	return trn, product
}

func TestReconcileApprovesAndFulfills(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)
	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, outcome)

	var settled models.Transaction
	require.NoError(t, db.Preload("OrderItems").First(&settled, "tx_ref = ?", trn.TxRef).Error)
	assert.Equal(t, models.TransactionApproved, settled.Status)
	assert.Equal(t, "flw-123", settled.FlwTransactionID)

	require.Len(t, settled.OrderItems, 1)
	assert.Equal(t, 2, settled.OrderItems[0].Quantity)
	assert.Equal(t, "M", settled.OrderItems[0].Size)
	assert.True(t, settled.OrderItems[0].Price.Equal(decimal.NewFromInt(5000)))

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 8, fresh.InStock)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)
	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	require.NoError(t, err)
	require.Equal(t, OutcomeApproved, outcome)

	outcome, err = p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 8, fresh.InStock, "stock must not be decremented twice")

	var orderItems int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&orderItems).Error)
	assert.Equal(t, int64(1), orderItems)
}

func TestReconcileAmountMismatchDeclines(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)
	p := &Pipeline{DB: db, Verifier: okVerifier(14000), Currency: "NGN"}

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	assert.Equal(t, OutcomeDeclined, outcome)
	assert.ErrorIs(t, err, models.ErrAmountMismatch)

	assertDeclinedUntouched(t, db, trn.TxRef, product.ID, 10)
}

func TestReconcileCurrencyMismatchDeclines(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)
	verifier := okVerifier(15000)
	verifier.result.Currency = "USD"
	p := &Pipeline{DB: db, Verifier: verifier, Currency: "NGN"}

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	assert.Equal(t, OutcomeDeclined, outcome)
	assert.ErrorIs(t, err, models.ErrCurrencyMismatch)

	assertDeclinedUntouched(t, db, trn.TxRef, product.ID, 10)
}

func TestReconcileFailedChargeDeclines(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)
	verifier := okVerifier(15000)
	verifier.result.Status = "failed"
	p := &Pipeline{DB: db, Verifier: verifier, Currency: "NGN"}

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	assert.Equal(t, OutcomeDeclined, outcome)
	assert.ErrorIs(t, err, models.ErrVerificationFailed)

	assertDeclinedUntouched(t, db, trn.TxRef, product.ID, 10)
}

func TestReconcileGatewayErrorDeclines(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)
	p := &Pipeline{
		DB:       db,
		Verifier: &stubVerifier{err: errors.New("connection refused")},
		Currency: "NGN",
	}

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	assert.Equal(t, OutcomeDeclined, outcome)
	assert.ErrorIs(t, err, models.ErrVerificationFailed)

	assertDeclinedUntouched(t, db, trn.TxRef, product.ID, 10)
}

func TestReconcileUnknownReference(t *testing.T) {
	db := newTestDB(t)
	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}

	outcome, err := p.Reconcile(context.Background(), "txn-missing", "flw-123")
	assert.Equal(t, OutcomeNoop, outcome)
	assert.ErrorIs(t, err, models.ErrTransactionNotFound)
}

func TestReconcileStockShortfallDeclinesAndRollsBack(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 1, 2, 15000)
	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	assert.Equal(t, OutcomeDeclined, outcome)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	var settled models.Transaction
	require.NoError(t, db.First(&settled, "tx_ref = ?", trn.TxRef).Error)
	assert.Equal(t, models.TransactionDeclined, settled.Status)

	// everything from the failed pass rolled back
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 1, fresh.InStock)

	var orderItems int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&orderItems).Error)
	assert.Equal(t, int64(0), orderItems)

	var cartItems int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&cartItems).Error)
	assert.Equal(t, int64(1), cartItems, "cart survives a declined order")
}

func TestReconcileMultiLineShortfallRollsBackAllLines(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)

	// second line whose stock will not cover the cart
	scarce := models.Product{
		Name:       "Hoodie",
		Price:      decimal.NewFromInt(8000),
		CategoryID: product.CategoryID,
		InStock:    1,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&scarce).Error)
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", trn.UserID).First(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.CartID,
		ProductID: scarce.ID,
		Quantity:  3,
	}).Error)

	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}
	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	assert.Equal(t, OutcomeDeclined, outcome)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	var first models.Product
	require.NoError(t, db.First(&first, product.ID).Error)
	assert.Equal(t, 10, first.InStock, "the feasible line must also roll back")
}

func TestContendingCheckoutsAtMostOneSucceeds(t *testing.T) {
	db := newTestDB(t)

	// first shopper wants all three units
	trn1, product := seedOrder(t, db, 3, 3, 20000)

	// second shopper wants one of the same units
	rival := models.User{ID: "user-2", Email: "rival@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&rival).Error)
	rivalID := rival.ID
	rivalCart := models.Cart{UserID: &rivalID}
	require.NoError(t, db.Create(&rivalCart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    rivalCart.CartID,
		ProductID: product.ID,
		Quantity:  1,
	}).Error)
	trn2 := models.Transaction{
		UserID: rival.ID,
		Amount: decimal.NewFromInt(10000),
		TxRef:  "txn-rival-" + t.Name(),
		Status: models.TransactionPending,
	}
	require.NoError(t, db.Create(&trn2).Error)

	p1 := &Pipeline{DB: db, Verifier: okVerifier(20000), Currency: "NGN"}
	p2 := &Pipeline{DB: db, Verifier: okVerifier(10000), Currency: "NGN"}

	out1, err1 := p1.Reconcile(context.Background(), trn1.TxRef, "flw-1")
	out2, err2 := p2.Reconcile(context.Background(), trn2.TxRef, "flw-2")

	require.NoError(t, err1)
	assert.Equal(t, OutcomeApproved, out1)
	assert.Equal(t, OutcomeDeclined, out2)
	assert.ErrorIs(t, err2, models.ErrInsufficientStock)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 0, fresh.InStock, "stock never goes negative")

	var approved int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("transaction_status = ?", models.TransactionApproved).
		Count(&approved).Error)
	assert.Equal(t, int64(1), approved)
}

func TestFinalizeDecrementGuardCatchesInterleavedSale(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 3, 2, 15000)

	// second line of the same product: each line passes the feasibility
	// pass against stock 3, but the decrements cannot both land
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", trn.UserID).First(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.CartID,
		ProductID: product.ID,
		Quantity:  2,
		Size:      "L",
	}).Error)

	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}
	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	assert.Equal(t, OutcomeDeclined, outcome)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 3, fresh.InStock, "the first line's decrement rolls back")

	var orderItems int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&orderItems).Error)
	assert.Equal(t, int64(0), orderItems)
}

func TestMarkProcessingOnlyMovesPending(t *testing.T) {
	db := newTestDB(t)
	trn, _ := seedOrder(t, db, 10, 2, 15000)
	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}

	p.MarkProcessing(trn.TxRef, "flw-55")
	var stored models.Transaction
	require.NoError(t, db.First(&stored, "tx_ref = ?", trn.TxRef).Error)
	assert.Equal(t, models.TransactionProcessing, stored.Status)
	assert.Equal(t, "flw-55", stored.FlwTransactionID)

	// a processing transaction still reconciles
	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-55")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, outcome)

	// settled transactions do not move back
	p.MarkProcessing(trn.TxRef, "flw-99")
	require.NoError(t, db.First(&stored, "tx_ref = ?", trn.TxRef).Error)
	assert.Equal(t, models.TransactionApproved, stored.Status)
}

func TestDeclineIsGuarded(t *testing.T) {
	db := newTestDB(t)
	trn, _ := seedOrder(t, db, 10, 2, 15000)
	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}

	assert.True(t, p.Decline(trn.TxRef))
	assert.False(t, p.Decline(trn.TxRef), "a settled transaction must not transition again")

	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyDeclined, outcome, "declined orders never approve later")
}

func TestReconcileReplayReportsTerminalState(t *testing.T) {
	db := newTestDB(t)
	trn, product := seedOrder(t, db, 10, 2, 15000)
	p := &Pipeline{DB: db, Verifier: okVerifier(15000), Currency: "NGN"}

	p.Decline(trn.TxRef)
	outcome, err := p.Reconcile(context.Background(), trn.TxRef, "flw-123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyDeclined, outcome)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 10, fresh.InStock, "a declined replay must not move stock")

	var stored models.Transaction
	require.NoError(t, db.First(&stored, "tx_ref = ?", trn.TxRef).Error)
	assert.Equal(t, models.TransactionDeclined, stored.Status)
}

func assertDeclinedUntouched(t *testing.T, db *gorm.DB, txRef string, productID uint, stock int) {
	t.Helper()

	var trn models.Transaction
	require.NoError(t, db.First(&trn, "tx_ref = ?", txRef).Error)
	assert.Equal(t, models.TransactionDeclined, trn.Status)

	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	assert.Equal(t, stock, product.InStock)

	var orderItems int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&orderItems).Error)
	assert.Equal(t, int64(0), orderItems)
}
