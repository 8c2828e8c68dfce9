package draw

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/secretsanta/internal/services/draw Service

import "context"

// Service defines the draw operations available to a UI
type Service interface {
	// GetOrDraw replays the drawer's earlier result or draws a new recipient
	GetOrDraw(ctx context.Context, input *GetOrDrawInput) (*GetOrDrawOutput, error)

	// GetStatus summarizes the draw without revealing any recipient
	GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error)

	// Reset wipes every draw and the device lock
	Reset(ctx context.Context, input *ResetInput) (*ResetOutput, error)
}
