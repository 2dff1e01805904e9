package api

import "fmt"

// Title and message templates for verification outcomes.
const (
	approvedTitle   = "Verification approved"
	approvedMessage = "Congratulations! Your verification request has been approved. " +
		"You now carry the \"Verified seller\" badge and your listings get priority in search."
	rejectedTitle   = "Verification rejected"
	rejectedMessage = "Unfortunately your verification request was rejected. Reason: %s. " +
		"You can apply again once the issues are fixed."
)

// DecisionDedupeKey identifies the single notification a verification
// decision may produce.
func DecisionDedupeKey(requestID uint, status string) string {
	return fmt.Sprintf("verification:%d:%s", requestID, status)
}

// DecisionNotification builds the notification sent to userID when request
// requestID reaches status. The reason is only used for rejections.
func DecisionNotification(userID, requestID uint, status, reason string) CreateNotificationRequest {
	n := CreateNotificationRequest{
		UserID:    userID,
		DedupeKey: DecisionDedupeKey(requestID, status),
	}
	if status == StatusApproved {
		n.Type = NotificationVerificationApproved
		n.Title = approvedTitle
		n.Message = approvedMessage
		return n
	}
	n.Type = NotificationVerificationRejected
	n.Title = rejectedTitle
	n.Message = fmt.Sprintf(rejectedMessage, reason)
	return n
}
