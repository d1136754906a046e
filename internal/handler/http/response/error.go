package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/domain/assistant"
	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/auth"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/dashboard"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/payroll"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/report"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Never retried by the client: a second attempt would post another cash-out.
	var integrity *payroll.SettlementIntegrityError
	if errors.As(err, &integrity) {
		SettlementIntegrity(w, integrity)
		return
	}

	switch {
	// Auth
	case errors.Is(err, jwt.ErrMissingClaims),
		errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrGoogleNotVerified),
		errors.Is(err, auth.ErrInvalidOAuthState):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrOAuthDisabled),
		errors.Is(err, assistant.ErrAssistantDisabled):
		ServiceUnavailable(w, err.Error())
	case errors.Is(err, jwt.ErrCompanyMissing),
		errors.Is(err, user.ErrCompanyIDRequired):
		BadRequest(w, "A company must be selected", nil)
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCannotModifySelf):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, production.ErrAreaNotFound),
		errors.Is(err, production.ErrServiceNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, finance.ErrEntryNotFound):
		NotFound(w, "Cash entry not found")
	case errors.Is(err, inventory.ErrItemNotFound),
		errors.Is(err, inventory.ErrMovementNotFound):
		NotFound(w, err.Error())

	// Conflicts: the request is fine but the current state forbids it
	case errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, attendance.ErrRecordExists),
		errors.Is(err, attendance.ErrRecordAlreadyPaid),
		errors.Is(err, employee.ErrEmployeeAlreadyActive),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive),
		errors.Is(err, production.ErrAreaFinished),
		errors.Is(err, payroll.ErrNothingToSettle),
		errors.Is(err, payroll.ErrSettlementInProgress),
		errors.Is(err, payroll.ErrInformationalSettlement),
		errors.Is(err, inventory.ErrNegativeStock),
		errors.Is(err, inventory.ErrItemBusy):
		Conflict(w, err.Error())

	// Business rule rejections
	case errors.Is(err, attendance.ErrEmployeeInactive),
		errors.Is(err, attendance.ErrToggleRequiresDailyModality),
		errors.Is(err, attendance.ErrInvalidVirtualStatus),
		errors.Is(err, attendance.ErrReservedObservationPrefix),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, employee.ErrInvalidPaymentModality),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrNonPositiveSettlement),
		errors.Is(err, production.ErrUnknownServiceType),
		errors.Is(err, production.ErrInvalidQuantity),
		errors.Is(err, production.ErrResponsibleNotFound),
		errors.Is(err, finance.ErrInvalidDirection),
		errors.Is(err, finance.ErrUnknownCategory),
		errors.Is(err, goal.ErrInvalidMonth),
		errors.Is(err, inventory.ErrInvalidMovementType),
		errors.Is(err, dashboard.ErrInvalidPeriod),
		errors.Is(err, dashboard.ErrInvalidRange),
		errors.Is(err, report.ErrUnknownDomain),
		errors.Is(err, report.ErrUnknownFormat),
		errors.Is(err, assistant.ErrEmptyConversation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrCompanyMismatch):
		Forbidden(w, err.Error())

	case errors.Is(err, assistant.ErrEmptyReply):
		writeError(w, http.StatusBadGateway, "ASSISTANT_ERROR", err.Error(), nil)

	default:
		InternalServerError(w, "An unexpected error occurred, please try again")
	}
}

// SettlementIntegrity reports a half-applied settlement with what is needed
// to reconcile it by hand.
func SettlementIntegrity(w http.ResponseWriter, err *payroll.SettlementIntegrityError) {
	writeError(w, http.StatusInternalServerError, "SETTLEMENT_INTEGRITY",
		"Cash-out was posted but some attendance records were not marked as paid. Do not retry; reconcile manually.",
		map[string]string{
			"cash_out_id":       err.CashOutID,
			"failed_record_ids": strings.Join(err.FailedRecordIDs, ","),
		})
}
