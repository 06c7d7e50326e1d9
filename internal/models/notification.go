package models

// RecipientRole identifies one of the three fixed notification recipients.
type RecipientRole string

const (
	RoleCompany   RecipientRole = "company"
	RoleCandidate RecipientRole = "candidate"
	RoleAdmin     RecipientRole = "admin"
)

// Roles lists the recipients in dispatch order.
var Roles = []RecipientRole{RoleCompany, RoleCandidate, RoleAdmin}

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySending DeliveryStatus = "sending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// NotificationOutcome is the result of sending to one recipient.
type NotificationOutcome struct {
	Role     RecipientRole  `json:"-"`
	Status   DeliveryStatus `json:"status"`
	Attempts int            `json:"attempts"`
	ID       string         `json:"id,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func (o NotificationOutcome) Sent() bool { return o.Status == DeliverySent }

type DispatchResults struct {
	Company   NotificationOutcome `json:"company"`
	Candidate NotificationOutcome `json:"candidate"`
	Admin     NotificationOutcome `json:"admin"`
}

// DispatchReport aggregates one notification call. It only lives in a response.
type DispatchReport struct {
	Success          bool            `json:"success"`
	TotalEmails      int             `json:"total_emails"`
	SuccessfulEmails int             `json:"successful_emails"`
	FailedEmails     int             `json:"failed_emails"`
	ValidationFailed bool            `json:"validation_failed,omitempty"`
	Results          DispatchResults `json:"results"`
	Errors           []string        `json:"errors"`
}

// Outcome returns a pointer to the slot of role inside the results.
func (r *DispatchReport) Outcome(role RecipientRole) *NotificationOutcome {
	switch role {
	case RoleCompany:
		return &r.Results.Company
	case RoleCandidate:
		return &r.Results.Candidate
	default:
		return &r.Results.Admin
	}
}
