package leave

import (
	"context"
)

type LeaveService interface {
	// Submit validates and files a new leave request for userID
	Submit(ctx context.Context, userID string, req SubmitRequest) (LeaveRequestResponse, error)

	// ApproveStage records approverID's decision on one stage of the request
	ApproveStage(ctx context.Context, requestID string, stage Stage, approverID string, req ReviewRequest) (LeaveRequestResponse, error)

	Cancel(ctx context.Context, requestID, callerID string, req CancelRequest) (LeaveRequestResponse, error)

	GetBalance(ctx context.Context, userID string, year int) ([]BalanceResponse, error)

	GetRequest(ctx context.Context, requestID, callerID string) (LeaveRequestResponse, error)
	ListUserRequests(ctx context.Context, targetUserID, callerID string) ([]LeaveRequestResponse, error)

	// ListPendingApprovals returns the requests waiting on callerID at stage
	ListPendingApprovals(ctx context.Context, callerID string, stage Stage) ([]LeaveRequestResponse, error)
}
