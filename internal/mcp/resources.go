package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var resWorkouts = mcp.NewResource(
	"pintrack://workouts",
	"Workouts",
	mcp.WithResourceDescription("Every logged workout in creation order"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) workouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
