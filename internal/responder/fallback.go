package responder

import (
	"strings"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

const (
	leaveAnswer = "Our company offers 20 days of paid leave per year. " +
		"Leave requests are submitted through the HR portal and approved by your manager."
	passwordResetAnswer = "To reset your password, go to the login page and click 'Forgot Password'. " +
		"A reset link will be sent to your registered email address."
	escalationAnswer = "This query seems important. I am escalating it to a human agent who will contact you shortly."
	acknowledgeAnswer = "Thank you for your query. We are looking into it."
)

// Classify answers a query by keyword matching on its lower-cased text. The first
// matching rule wins: leave, then password reset, then escalation keywords.
func Classify(query string) Answer {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "leave"):
		return Answer{Response: leaveAnswer, Status: domain.TicketStatusClosed}
	case strings.Contains(q, "password") && strings.Contains(q, "reset"):
		return Answer{Response: passwordResetAnswer, Status: domain.TicketStatusClosed}
	case strings.Contains(q, "urgent"), strings.Contains(q, "critical"), strings.Contains(q, "human"):
		return Answer{Response: escalationAnswer, Status: domain.TicketStatusEscalated}
	default:
		return Answer{Response: acknowledgeAnswer, Status: domain.TicketStatusOpen}
	}
}
