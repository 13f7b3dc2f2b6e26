// Package api defines the request and response messages of the back-office
// RPC services. Messages travel as JSON; amounts are decimal strings with at
// most two fractional digits (e.g. "33.33") and timestamps are Unix seconds.
package api

// User is a registered account. Users double as settlement participants.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

// Participant is a user as seen by the settlement engine.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Password    string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

// Expense is a shared expense fronted by one payer.
type Expense struct {
	ID                string   `json:"id"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Amount            string   `json:"amount"`
	PaidBy            string   `json:"paidBy"`
	IsShared          bool     `json:"isShared"`
	SplitCount        int      `json:"splitCount"`
	SplitParticipants []string `json:"splitParticipants"`
	Status            string   `json:"status"`
	Date              int64    `json:"date"`
	CreatedAt         int64    `json:"createdAt"`
}

// CreateExpenseRequest records an expense. PaidBy defaults to the caller.
// SplitCount defaults to len(SplitParticipants)+1 for shared expenses and 1
// otherwise.
type CreateExpenseRequest struct {
	Description       string   `json:"description" validate:"max=200"`
	Category          string   `json:"category" validate:"omitempty,oneof=MATERIALS TOOLS TRAVEL MEALS UTILITIES INSURANCE SUBSCRIPTIONS MARKETING OFFICE_SUPPLIES EQUIPMENT MAINTENANCE OTHER"`
	Amount            string   `json:"amount" validate:"required,numeric"`
	PaidBy            string   `json:"paidBy"`
	IsShared          bool     `json:"isShared"`
	SplitCount        int      `json:"splitCount" validate:"gte=0"`
	SplitParticipants []string `json:"splitParticipants" validate:"dive,required"`
	Status            string   `json:"status" validate:"omitempty,oneof=PENDING APPROVED REIMBURSED REJECTED"`
	Date              int64    `json:"date" validate:"gte=0"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=PENDING APPROVED REIMBURSED REJECTED"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type UpdateExpenseStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REIMBURSED REJECTED"`
}

type UpdateExpenseStatusResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteExpenseResponse struct{}

// Balance is a participant's net position. Positive means they are owed.
type Balance struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	Amount        string `json:"amount"`
}

// Transfer is a suggested payment.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Settlement is an obligation from a debtor to a creditor.
type Settlement struct {
	ID            string `json:"id"`
	FromUserID    string `json:"fromUserId"`
	ToUserID      string `json:"toUserId"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	DueDate       int64  `json:"dueDate"`
	PaidAt        int64  `json:"paidAt,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Overdue       bool   `json:"overdue"`
	Version       int64  `json:"version"`
	CreatedAt     int64  `json:"createdAt"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type CalculateSettlementsRequest struct{}

// CalculateSettlementsResponse previews balances and the transfers that
// would clear them, without persisting anything.
type CalculateSettlementsResponse struct {
	Balances  []*Balance  `json:"balances"`
	Transfers []*Transfer `json:"transfers"`
}

type CreateSettlementsRequest struct{}

// CreateSettlementsResponse lists the PENDING settlements after
// reconciliation and what changed.
type CreateSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
	Created     int           `json:"created"`
	Updated     int           `json:"updated"`
	Deleted     int           `json:"deleted"`
}

type GetSettlementRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

// ListSettlementsRequest filters settlements. All fields are optional.
type ListSettlementsRequest struct {
	Status        string `json:"status" validate:"omitempty,oneof=PENDING PAID"`
	ParticipantID string `json:"participantId"`
	OverdueOnly   bool   `json:"overdueOnly"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// MarkPaidRequest pays a settlement in full. ExpectedVersion, when set, must
// match the stored version.
type MarkPaidRequest struct {
	ID              string `json:"id" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"max=50"`
	Notes           string `json:"notes" validate:"max=500"`
	ExpectedVersion int64  `json:"expectedVersion" validate:"gte=0"`
}

type MarkPaidResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type MarkPartiallyPaidRequest struct {
	ID              string `json:"id" validate:"required"`
	Amount          string `json:"amount" validate:"required,numeric"`
	PaymentMethod   string `json:"paymentMethod" validate:"max=50"`
	Notes           string `json:"notes" validate:"max=500"`
	ExpectedVersion int64  `json:"expectedVersion" validate:"gte=0"`
}

// MarkPartiallyPaidResponse returns the amended PENDING remainder and the
// new PAID record.
type MarkPartiallyPaidResponse struct {
	Remainder *Settlement `json:"remainder"`
	Paid      *Settlement `json:"paid"`
}

type AmendPaymentRequest struct {
	ID              string `json:"id" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"max=50"`
	Notes           string `json:"notes" validate:"max=500"`
	ExpectedVersion int64  `json:"expectedVersion" validate:"gte=0"`
}

type AmendPaymentResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type DeleteSettlementRequest struct {
	ID              string `json:"id" validate:"required"`
	ExpectedVersion int64  `json:"expectedVersion" validate:"gte=0"`
}

type DeleteSettlementResponse struct{}

type GetSummaryRequest struct{}

// Summary aggregates the settlement table.
type Summary struct {
	TotalCount    int    `json:"totalCount"`
	PendingCount  int    `json:"pendingCount"`
	PaidCount     int    `json:"paidCount"`
	OverdueCount  int    `json:"overdueCount"`
	TotalAmount   string `json:"totalAmount"`
	PendingAmount string `json:"pendingAmount"`
}

type GetSummaryResponse struct {
	Summary *Summary `json:"summary"`
}
